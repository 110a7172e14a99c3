package views_test

import (
	"testing"

	"github.com/jrsteele09/go-tms-client/authctx/authctxfake"
	"github.com/jrsteele09/go-tms-client/internal/mocks"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/users"
	"go.uber.org/mock/gomock"
)

const (
	acmeID int64 = 5
	betaID int64 = 6
)

var testUser = users.User{ID: 1, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}

type viewFixture struct {
	auth      *authctxfake.FakeContext
	prefs     *mocks.MockPrefsStore
	registrar *mocks.MockRegistrar
	dashboard *mocks.MockDashboardAPI
	orgs      *mocks.MockOrgsAPI
}

// setupViews signs testUser in as owner of Acme (active) and member of Beta.
func setupViews(t *testing.T) *viewFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	memberships := []tenants.Membership{
		{ID: 10, TenantID: acmeID, UserID: testUser.ID, RoleKey: tenants.RoleOwner},
		{ID: 11, TenantID: betaID, UserID: testUser.ID, RoleKey: tenants.RoleMember},
	}
	list := []tenants.Tenant{
		{ID: acmeID, Name: "Acme", Slug: "acme"},
		{ID: betaID, Name: "Beta", Slug: "beta"},
	}
	return &viewFixture{
		auth:      authctxfake.NewAuthenticated(testUser, memberships, list),
		prefs:     mocks.NewMockPrefsStore(ctrl),
		registrar: mocks.NewMockRegistrar(ctrl),
		dashboard: mocks.NewMockDashboardAPI(ctrl),
		orgs:      mocks.NewMockOrgsAPI(ctrl),
	}
}
