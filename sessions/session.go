package sessions

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Storage keys. They match the keys the web front-end writes to localStorage so a
// migrated key-value dump restores as-is.
const (
	KeyAuth            = "tc_auth"
	KeyTenants         = "tc_tenants"
	KeyTenantsCachedAt = "tc_tenants_cached_at"
	KeyLoginPrefs      = "tc_prefs"
	KeyProfilePrefs    = "tc_profile_prefs"
)

// Session is the authentication and tenant state the client carries between runs.
type Session struct {
	AccessToken  string // Short-lived bearer credential
	RefreshToken string // Longer-lived renewal credential
	TenantID     int64  // Active tenant; 0 means none
}

// Authenticated reports whether the session may call protected endpoints. A refresh token
// without an access token does not count: the caller is anonymous until a login or refresh.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Restorable reports whether the session holds both tokens, the precondition for resuming it.
func (s Session) Restorable() bool {
	return s.AccessToken != "" && s.RefreshToken != ""
}

// HasTenant reports whether a tenant is active.
func (s Session) HasTenant() bool {
	return s.TenantID != 0
}

// authRecord is the persisted form under KeyAuth.
type authRecord struct {
	Access   string   `json:"access"`
	Refresh  string   `json:"refresh"`
	TenantID *looseID `json:"tenant_id"`
}

func (r authRecord) session() Session {
	s := Session{AccessToken: r.Access, RefreshToken: r.Refresh}
	if r.TenantID != nil {
		s.TenantID = int64(*r.TenantID)
	}
	return s
}

func recordOf(s Session) authRecord {
	r := authRecord{Access: s.AccessToken, Refresh: s.RefreshToken}
	if s.TenantID != 0 {
		id := looseID(s.TenantID)
		r.TenantID = &id
	}
	return r
}

// looseID accepts ids written either as JSON numbers or numeric strings.
type looseID int64

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		data = []byte(s)
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = looseID(v)
	return nil
}
