package tenants

import "time"

// DefaultCacheTTL is how long a fetched tenant list counts as fresh.
const DefaultCacheTTL = 6 * time.Hour

// Cache is the locally persisted tenant list. It is advisory: staleness never blocks a
// caller, it only makes the list eligible for a background refresh.
type Cache struct {
	Tenants   []Tenant
	FetchedAt time.Time
}

// IsStale reports whether the cache needs a refresh at now. The boundary is inclusive:
// a list fetched at T is stale from T+ttl onwards. An unknown fetch time is stale.
func (c Cache) IsStale(now time.Time, ttl time.Duration) bool {
	if c.FetchedAt.IsZero() {
		return true
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return !now.Before(c.FetchedAt.Add(ttl))
}
