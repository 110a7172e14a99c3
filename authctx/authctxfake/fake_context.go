package authctxfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/users"
)

var _ authctx.Context = (*FakeContext)(nil)

// FakeContext is a canned authctx.Context. Set the exported fields before use; calls are
// recorded for assertions.
type FakeContext struct {
	lock sync.Mutex

	CurrentState   authctx.State
	CurrentUser    *users.User
	MembershipList []tenants.Membership
	TenantList     []tenants.Tenant
	ActiveTenant   int64

	LoginErr   error
	SwitchErr  error
	RefreshErr error

	LoginCalls          []LoginCall
	SwitchCalls         []int64
	TenantRefreshes     int
	MembershipRefreshes int
	Logouts             int
}

type LoginCall struct {
	Username string
	Password string
	TenantID int64
}

// NewAuthenticated returns a fake signed in as user with the given memberships, the
// first of which is active.
func NewAuthenticated(user users.User, memberships []tenants.Membership, list []tenants.Tenant) *FakeContext {
	f := &FakeContext{
		CurrentState:   authctx.StateAuthenticated,
		CurrentUser:    &user,
		MembershipList: memberships,
		TenantList:     list,
	}
	if len(memberships) > 0 {
		f.ActiveTenant = memberships[0].TenantID
	}
	return f
}

func (f *FakeContext) State() authctx.State {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.CurrentState
}

func (f *FakeContext) User() *users.User {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.CurrentUser
}

func (f *FakeContext) Memberships() []tenants.Membership {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]tenants.Membership(nil), f.MembershipList...)
}

func (f *FakeContext) Tenants() []tenants.Tenant {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]tenants.Tenant(nil), f.TenantList...)
}

func (f *FakeContext) CurrentTenant() int64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.ActiveTenant
}

func (f *FakeContext) TenantNameByID(id int64) string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return tenants.NameByID(f.TenantList, id)
}

func (f *FakeContext) Bootstrap(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.CurrentState == authctx.StateUninitialized {
		f.CurrentState = authctx.StateAnonymous
	}
	return nil
}

func (f *FakeContext) Login(_ context.Context, username, password string, tenantID int64) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.LoginCalls = append(f.LoginCalls, LoginCall{Username: username, Password: password, TenantID: tenantID})
	if f.LoginErr != nil {
		f.CurrentState = authctx.StateAnonymous
		return f.LoginErr
	}
	f.CurrentState = authctx.StateAuthenticated
	if tenantID != 0 {
		f.ActiveTenant = tenantID
	} else if m, ok := tenants.SelectPreferred(f.MembershipList); ok {
		f.ActiveTenant = m.TenantID
	}
	return nil
}

func (f *FakeContext) Logout(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.Logouts++
	f.CurrentState = authctx.StateAnonymous
	f.CurrentUser = nil
	f.MembershipList = nil
	f.ActiveTenant = 0
	return nil
}

func (f *FakeContext) SwitchTenant(_ context.Context, tenantID int64) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.SwitchCalls = append(f.SwitchCalls, tenantID)
	if f.SwitchErr != nil {
		return f.SwitchErr
	}
	if tenantID == 0 {
		return errors.Required("tenant")
	}
	f.ActiveTenant = tenantID
	return nil
}

func (f *FakeContext) RefreshTenants(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.TenantRefreshes++
	return f.RefreshErr
}

func (f *FakeContext) RefreshMemberships(context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.MembershipRefreshes++
	return f.RefreshErr
}

func (f *FakeContext) EnsureFreshTenants(context.Context) bool {
	return false
}

// AddTenant appends t and a membership with role for the signed-in user, as a refresh
// after creating a tenant would.
func (f *FakeContext) AddTenant(t tenants.Tenant, role string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.TenantList = append(f.TenantList, t)
	var userID int64
	if f.CurrentUser != nil {
		userID = f.CurrentUser.ID
	}
	f.MembershipList = append(f.MembershipList, tenants.Membership{TenantID: t.ID, UserID: userID, RoleKey: role})
}
