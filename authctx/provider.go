package authctx

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/users"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var _ Context = (*Provider)(nil)

// API is the slice of client.Client the provider drives.
type API interface {
	Login(ctx context.Context, username, password string, tenantID int64) (client.TokenPair, error)
	SwitchTenant(ctx context.Context, tenantID int64) (client.TokenPair, error)
	Me(ctx context.Context) (users.User, error)
	ListMemberships(ctx context.Context, filter client.MembershipFilter) ([]tenants.Membership, error)
	ListTenants(ctx context.Context) ([]tenants.Tenant, error)
}

// SessionStore is the slice of sessions.Store the provider drives.
type SessionStore interface {
	Restore(ctx context.Context) (sessions.Session, error)
	ClearAuth(ctx context.Context) error
	TenantCache(ctx context.Context) (tenants.Cache, error)
	SaveTenantCache(ctx context.Context, list []tenants.Tenant, fetchedAt time.Time) error
}

const tenantRefreshKey = "tenants"

// Provider is the Context backed by the gateway client and the session store.
// It is safe for concurrent use.
type Provider struct {
	api      API
	store    SessionStore
	log      zerolog.Logger
	nowTime  func() time.Time
	cacheTTL time.Duration

	lock             sync.RWMutex
	state            State
	user             *users.User
	memberships      []tenants.Membership
	tenants          []tenants.Tenant
	tenantsFetchedAt time.Time
	currentTenant    int64

	refreshes  singleflight.Group
	background sync.WaitGroup
	bgCtx      context.Context
	cancel     context.CancelFunc
}

// ProviderOption defines a function type to modify the Provider instance.
type ProviderOption func(*Provider)

func WithLogger(log zerolog.Logger) ProviderOption {
	return func(p *Provider) {
		p.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ProviderOption {
	return func(p *Provider) {
		p.nowTime = nowFunc
	}
}

// WithTenantCacheTTL overrides tenants.DefaultCacheTTL.
func WithTenantCacheTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		p.cacheTTL = ttl
	}
}

func NewProvider(api API, store SessionStore, options ...ProviderOption) (*Provider, error) {
	if api == nil {
		return nil, pkgerrors.New("[NewProvider] api is required")
	}
	if store == nil {
		return nil, pkgerrors.New("[NewProvider] session store is required")
	}

	p := &Provider{
		api:      api,
		store:    store,
		log:      zerolog.Nop(),
		nowTime:  time.Now,
		cacheTTL: tenants.DefaultCacheTTL,
		state:    StateUninitialized,
	}
	for _, opt := range options {
		opt(p)
	}
	p.bgCtx, p.cancel = context.WithCancel(context.Background())
	return p, nil
}

// Close waits for background tenant refreshes to finish.
func (p *Provider) Close() {
	p.background.Wait()
	p.cancel()
}

func (p *Provider) State() State {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.state
}

func (p *Provider) User() *users.User {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *Provider) Memberships() []tenants.Membership {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return append([]tenants.Membership(nil), p.memberships...)
}

func (p *Provider) Tenants() []tenants.Tenant {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return append([]tenants.Tenant(nil), p.tenants...)
}

func (p *Provider) CurrentTenant() int64 {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.currentTenant
}

func (p *Provider) TenantNameByID(id int64) string {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return tenants.NameByID(p.tenants, id)
}

// Bootstrap restores the persisted session. The cached tenant list is shown whatever its
// age. With both tokens on disk it fetches the user, then memberships, then (when the
// cache is stale) tenants. Only the user fetch is fatal: it clears the session.
func (p *Provider) Bootstrap(ctx context.Context) error {
	cache, err := p.store.TenantCache(ctx)
	if err != nil && !errors.Is(err, errors.ErrNotFound) {
		p.log.Debug().Err(err).Msg("tenant cache unreadable")
	}
	p.lock.Lock()
	p.tenants = cache.Tenants
	p.tenantsFetchedAt = cache.FetchedAt
	p.lock.Unlock()

	session, err := p.store.Restore(ctx)
	if err != nil {
		p.log.Debug().Err(err).Msg("no session restored")
	}
	if !session.Restorable() {
		p.setAnonymous()
		return nil
	}

	me, err := p.api.Me(ctx)
	if err != nil {
		p.log.Info().Err(err).Msg("stored session rejected, signing out")
		p.clearSession(ctx)
		return nil
	}

	p.lock.Lock()
	p.user = &me
	p.currentTenant = session.TenantID
	p.lock.Unlock()

	if err := p.RefreshMemberships(ctx); err != nil {
		p.log.Warn().Err(err).Msg("memberships not loaded")
	}
	if cache.IsStale(p.nowTime(), p.cacheTTL) {
		if err := p.RefreshTenants(ctx); err != nil {
			p.log.Warn().Err(err).Msg("tenants not refreshed")
		}
	}

	p.lock.Lock()
	p.state = StateAuthenticated
	p.lock.Unlock()
	return nil
}

// Login runs the credential exchange and resolves the active tenant. A failed exchange or
// user fetch leaves the provider Anonymous and returns the error. Everything after that is
// best effort: the user ends up Authenticated, possibly without a tenant.
func (p *Provider) Login(ctx context.Context, username, password string, tenantID int64) error {
	p.lock.Lock()
	p.state = StateAuthenticating
	p.user = nil
	p.memberships = nil
	p.tenants = nil
	p.tenantsFetchedAt = time.Time{}
	p.currentTenant = 0
	p.lock.Unlock()

	if _, err := p.api.Login(ctx, username, password, tenantID); err != nil {
		p.setAnonymous()
		return err
	}

	me, err := p.api.Me(ctx)
	if err != nil {
		p.clearSession(ctx)
		return pkgerrors.Wrap(err, "fetching signed-in user")
	}
	p.lock.Lock()
	p.user = &me
	p.currentTenant = 0
	p.lock.Unlock()

	if err := p.RefreshMemberships(ctx); err != nil {
		p.log.Warn().Err(err).Msg("memberships not loaded")
	}
	if err := p.RefreshTenants(ctx); err != nil {
		p.log.Warn().Err(err).Msg("tenants not refreshed")
	}

	if tenantID != 0 {
		p.lock.Lock()
		p.currentTenant = tenantID
		p.lock.Unlock()
	} else if preferred, ok := tenants.SelectPreferred(p.Memberships()); ok {
		if err := p.SwitchTenant(ctx, preferred.TenantID); err != nil {
			p.log.Warn().Err(err).Int64("tenant_id", preferred.TenantID).Msg("could not activate preferred tenant")
		}
	}

	p.lock.Lock()
	p.state = StateAuthenticated
	p.lock.Unlock()
	return nil
}

// Logout forgets the session in memory and in storage. A storage failure is returned but
// the provider is Anonymous either way.
func (p *Provider) Logout(ctx context.Context) error {
	return p.clearSession(ctx)
}

// SwitchTenant activates tenantID. CurrentTenant only changes when the backend agrees.
func (p *Provider) SwitchTenant(ctx context.Context, tenantID int64) error {
	if tenantID == 0 {
		return errors.Required("tenant")
	}
	if _, err := p.api.SwitchTenant(ctx, tenantID); err != nil {
		return pkgerrors.Wrapf(err, "switching to %s", p.TenantNameByID(tenantID))
	}
	p.lock.Lock()
	p.currentTenant = tenantID
	p.lock.Unlock()
	return nil
}

// RefreshTenants re-fetches the tenant list and stamps the cache.
func (p *Provider) RefreshTenants(ctx context.Context) error {
	list, err := p.api.ListTenants(ctx)
	if err != nil {
		return err
	}
	fetchedAt := p.nowTime()

	p.lock.Lock()
	p.tenants = list
	p.tenantsFetchedAt = fetchedAt
	p.lock.Unlock()

	if err := p.store.SaveTenantCache(ctx, list, fetchedAt); err != nil {
		p.log.Debug().Err(err).Msg("tenant cache not persisted")
	}
	return nil
}

func (p *Provider) RefreshMemberships(ctx context.Context) error {
	p.lock.RLock()
	user := p.user
	p.lock.RUnlock()
	if user == nil {
		return errors.ErrNotAuthenticated
	}

	list, err := p.api.ListMemberships(ctx, client.MembershipFilter{UserID: user.ID})
	if err != nil {
		return err
	}
	p.lock.Lock()
	p.memberships = list
	p.lock.Unlock()
	return nil
}

func (p *Provider) EnsureFreshTenants(_ context.Context) bool {
	p.lock.RLock()
	authenticated := p.state == StateAuthenticated
	stale := tenants.Cache{FetchedAt: p.tenantsFetchedAt}.IsStale(p.nowTime(), p.cacheTTL)
	p.lock.RUnlock()

	if !authenticated || !stale {
		return false
	}
	p.scheduleTenantRefresh()
	return true
}

// scheduleTenantRefresh refreshes tenants off the caller's goroutine. Overlapping requests
// share one fetch.
func (p *Provider) scheduleTenantRefresh() {
	p.background.Add(1)
	go func() {
		defer p.background.Done()
		_, err, shared := p.refreshes.Do(tenantRefreshKey, func() (any, error) {
			return nil, p.RefreshTenants(p.bgCtx)
		})
		if err != nil && !shared {
			p.log.Warn().Err(err).Msg("background tenant refresh failed")
		}
	}()
}

func (p *Provider) setAnonymous() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.state = StateAnonymous
	p.user = nil
	p.memberships = nil
	p.tenants = nil
	p.tenantsFetchedAt = time.Time{}
	p.currentTenant = 0
}

func (p *Provider) clearSession(ctx context.Context) error {
	p.setAnonymous()
	if err := p.store.ClearAuth(ctx); err != nil {
		p.log.Debug().Err(err).Msg("session not cleared from storage")
		return err
	}
	return nil
}
