package views

import (
	"context"

	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/sessions"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/jrsteele09/go-tms-client/users"
)

// PrefsStore persists form and profile preferences. *sessions.Store implements it.
type PrefsStore interface {
	LoginPrefs(ctx context.Context) (sessions.LoginPrefs, error)
	SaveLoginPrefs(ctx context.Context, prefs sessions.LoginPrefs) error
	ProfilePrefs(ctx context.Context) (sessions.ProfilePrefs, error)
	SaveProfilePrefs(ctx context.Context, prefs sessions.ProfilePrefs) error
}

// Registrar creates accounts. *client.Client implements it.
type Registrar interface {
	Register(ctx context.Context, req users.RegisterRequest) (users.User, error)
}

// DashboardAPI is the gateway surface used by the dashboard. *client.Client implements it.
type DashboardAPI interface {
	CreateTenant(ctx context.Context, in tenants.Input) (tenants.Tenant, error)
	ListProjects(ctx context.Context) ([]tms.Project, error)
	CreateProject(ctx context.Context, p tms.NewProject) (tms.Project, error)
	ListSections(ctx context.Context, projectID int64) ([]tms.Section, error)
	CreateSection(ctx context.Context, s tms.NewSection) (tms.Section, error)
	ListTestCases(ctx context.Context, projectID int64) ([]tms.TestCase, error)
	CreateTestCase(ctx context.Context, tc tms.NewTestCase) (tms.TestCase, error)
	ListPlans(ctx context.Context, projectID int64) ([]tms.Plan, error)
	CreatePlan(ctx context.Context, p tms.NewPlan) (tms.Plan, error)
	UpdatePlan(ctx context.Context, planID int64, update tms.PlanUpdate) (tms.Plan, error)
	ListRuns(ctx context.Context, projectID int64) ([]tms.Run, error)
	CreateRun(ctx context.Context, r tms.NewRun) (tms.Run, error)
	ListReleases(ctx context.Context, projectID int64) ([]tms.Release, error)
	CreateRelease(ctx context.Context, r tms.NewRelease) (tms.Release, error)
}

// OrgsAPI is the gateway surface used by the account page. *client.Client implements it.
type OrgsAPI interface {
	UpdateTenant(ctx context.Context, tenantID int64, in tenants.Input) (tenants.Tenant, error)
	ListMemberships(ctx context.Context, filter client.MembershipFilter) ([]tenants.Membership, error)
	DeleteMembership(ctx context.Context, membershipID int64) error
	CreateInvitation(ctx context.Context, inv tenants.Invitation) (tenants.Invitation, error)
}

var (
	_ PrefsStore   = (*sessions.Store)(nil)
	_ Registrar    = (*client.Client)(nil)
	_ DashboardAPI = (*client.Client)(nil)
	_ OrgsAPI      = (*client.Client)(nil)
)
