package sessions

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/rs/zerolog"
)

// Store keeps the session in memory and mirrors it to a Repo on a best-effort basis.
// Storage failures are returned for logging but never undo the in-memory change:
// the repo is a cache the client can run without.
type Store struct {
	repo    Repo
	log     zerolog.Logger
	nowTime func() time.Time

	lock    sync.RWMutex
	current Session
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithLogger sets the logger used for swallowed storage failures.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

func NewStore(repo Repo, options ...StoreOption) *Store {
	s := &Store{
		repo:    repo,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Session returns the in-memory session.
func (s *Store) Session() Session {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current
}

// Restore loads the persisted session into memory. Any failure leaves an empty session;
// the error is informational. A missing record is not an error.
func (s *Store) Restore(ctx context.Context) (Session, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	persisted, err := s.readAuth(ctx)
	if err != nil {
		s.current = Session{}
		if errors.Is(err, errors.ErrNotFound) {
			return Session{}, nil
		}
		s.log.Debug().Err(err).Msg("session restore failed")
		return Session{}, errors.Wrapf(err, "[Restore] read session")
	}
	s.current = persisted
	return persisted, nil
}

// Persisted reads the stored session without touching the in-memory one.
func (s *Store) Persisted(ctx context.Context) (Session, error) {
	return s.readAuth(ctx)
}

// SetAuth merges new credentials over the persisted record and writes it back.
// An empty refresh (or access) token keeps the previously stored value; the tenant is
// always replaced, with 0 clearing it.
func (s *Store) SetAuth(ctx context.Context, accessToken string, tenantID int64, refreshToken string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	persisted, err := s.readAuth(ctx)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		s.log.Debug().Err(err).Msg("reading persisted session before merge")
	}

	merged := Session{
		AccessToken:  firstNonEmpty(accessToken, persisted.AccessToken, s.current.AccessToken),
		RefreshToken: firstNonEmpty(refreshToken, persisted.RefreshToken, s.current.RefreshToken),
		TenantID:     tenantID,
	}
	s.current = merged

	data, err := json.Marshal(recordOf(merged))
	if err != nil {
		return errors.Wrapf(err, "[SetAuth] encode session")
	}
	if err := s.repo.Set(ctx, KeyAuth, data); err != nil {
		s.log.Debug().Err(err).Msg("session not persisted")
		return errors.Wrapf(err, "[SetAuth] persist session")
	}
	return nil
}

// ClearAuth forgets the session and the tenant cache, in memory and in storage.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.current = Session{}
	if err := s.repo.Delete(ctx, KeyAuth, KeyTenants, KeyTenantsCachedAt); err != nil {
		s.log.Debug().Err(err).Msg("session not cleared from storage")
		return errors.Wrapf(err, "[ClearAuth] delete session")
	}
	return nil
}

// TenantCache returns the cached tenant list. A list without a timestamp comes back with a
// zero FetchedAt, which tenants.Cache treats as stale.
func (s *Store) TenantCache(ctx context.Context) (tenants.Cache, error) {
	var cache tenants.Cache
	data, err := s.repo.Get(ctx, KeyTenants)
	if err != nil {
		return cache, err
	}
	if err := json.Unmarshal(data, &cache.Tenants); err != nil {
		return tenants.Cache{}, errors.Wrapf(err, "[TenantCache] decode tenants")
	}

	raw, err := s.repo.Get(ctx, KeyTenantsCachedAt)
	if err != nil {
		return cache, nil
	}
	if ms, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		cache.FetchedAt = time.UnixMilli(ms)
	}
	return cache, nil
}

// SaveTenantCache stores list with fetchedAt (now when zero).
func (s *Store) SaveTenantCache(ctx context.Context, list []tenants.Tenant, fetchedAt time.Time) error {
	if fetchedAt.IsZero() {
		fetchedAt = s.nowTime()
	}
	if list == nil {
		list = []tenants.Tenant{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return errors.Wrapf(err, "[SaveTenantCache] encode tenants")
	}
	if err := s.repo.Set(ctx, KeyTenants, data); err != nil {
		return errors.Wrapf(err, "[SaveTenantCache] persist tenants")
	}
	stamp := strconv.FormatInt(fetchedAt.UnixMilli(), 10)
	if err := s.repo.Set(ctx, KeyTenantsCachedAt, []byte(stamp)); err != nil {
		return errors.Wrapf(err, "[SaveTenantCache] persist timestamp")
	}
	return nil
}

func (s *Store) readAuth(ctx context.Context) (Session, error) {
	data, err := s.repo.Get(ctx, KeyAuth)
	if err != nil {
		return Session{}, err
	}
	var record authRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return Session{}, errors.Wrapf(err, "decode %s", KeyAuth)
	}
	return record.session(), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
