// Package authctx owns the signed-in user's view of the world: who they are, which tenants
// they belong to and which one is active. Views receive a Context explicitly instead of
// reaching for shared state.
package authctx

import (
	"context"

	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/users"
)

type State int

const (
	StateUninitialized State = iota
	StateAnonymous
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Context is the session/tenant state shared by every view.
type Context interface {
	State() State
	User() *users.User
	Memberships() []tenants.Membership
	Tenants() []tenants.Tenant
	// CurrentTenant is the active tenant id, 0 when none is selected.
	CurrentTenant() int64
	TenantNameByID(id int64) string

	// Bootstrap restores a persisted session. It moves Uninitialized to Authenticated or
	// Anonymous and only fails on programming errors; backend failures end in Anonymous.
	Bootstrap(ctx context.Context) error
	// Login exchanges credentials and resolves the active tenant. tenantID 0 auto-selects
	// owner, then admin, then the first membership.
	Login(ctx context.Context, username, password string, tenantID int64) error
	Logout(ctx context.Context) error
	SwitchTenant(ctx context.Context, tenantID int64) error
	RefreshTenants(ctx context.Context) error
	RefreshMemberships(ctx context.Context) error
	// EnsureFreshTenants schedules a background tenant refresh when the cached list is stale
	// and reports whether it did.
	EnsureFreshTenants(ctx context.Context) bool
}
