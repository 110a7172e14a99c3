package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-tms-client/client"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/fakebackend"
	"github.com/jrsteele09/go-tms-client/sessions"
	sessionrepofakes "github.com/jrsteele09/go-tms-client/sessions/repofakes"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/jrsteele09/go-tms-client/users"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "correct-horse"
)

type testFixture struct {
	backend *fakebackend.Backend
	repo    *sessionrepofakes.FakeKVRepo
	store   *sessions.Store
	client  *client.Client
	user    users.User
	tenant  tenants.Tenant
}

func setupTest(t *testing.T, options ...client.ClientOption) *testFixture {
	t.Helper()
	backend := fakebackend.New(t)
	user := backend.AddUser(users.User{Email: testEmail, FirstName: "Ada", LastName: "Lovelace"}, testPassword)
	tenant := backend.AddTenant(tenants.Tenant{Name: "Acme", Slug: "acme"})
	backend.AddMembership(tenants.Membership{TenantID: tenant.ID, UserID: user.ID, RoleKey: tenants.RoleOwner})

	repo := sessionrepofakes.NewFakeKVRepo()
	store := sessions.NewStore(repo)
	c, err := client.New(backend.URL(), store, options...)
	require.NoError(t, err)

	return &testFixture{backend: backend, repo: repo, store: store, client: c, user: user, tenant: tenant}
}

// signIn seeds a valid session directly, bypassing the login endpoint.
func (f *testFixture) signIn(t *testing.T, tenantID int64) (access, refresh string) {
	t.Helper()
	access, refresh = f.backend.IssueTokens(f.user.ID, tenantID)
	require.NoError(t, f.store.SetAuth(context.Background(), access, tenantID, refresh))
	return access, refresh
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)

	pair, err := f.client.Login(ctx, testEmail, testPassword, f.tenant.ID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	session := f.store.Session()
	require.Equal(t, pair.Access, session.AccessToken)
	require.Equal(t, pair.Refresh, session.RefreshToken)
	require.Equal(t, f.tenant.ID, session.TenantID)

	persisted, err := f.store.Persisted(ctx)
	require.NoError(t, err)
	require.Equal(t, session, persisted)

	req, ok := f.backend.LastRequest(http.MethodPost, client.PathToken)
	require.True(t, ok)
	require.Empty(t, req.Header.Values(client.HeaderTenantID))
	require.JSONEq(t, `{"username":"ada@example.com","password":"correct-horse","tenant_id":`+jsonInt(f.tenant.ID)+`}`, string(req.Body))
}

func TestLogin_WithoutTenantOmitsField(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)

	_, err := f.client.Login(ctx, testEmail, testPassword, 0)
	require.NoError(t, err)
	require.Equal(t, int64(0), f.store.Session().TenantID)

	req, _ := f.backend.LastRequest(http.MethodPost, client.PathToken)
	var body map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &body))
	require.NotContains(t, body, "tenant_id")
}

func TestLogin_BadCredentials(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)

	_, err := f.client.Login(ctx, testEmail, "wrong", 0)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.EqualError(t, err, "No active account found with the given credentials")
	require.False(t, f.store.Session().Authenticated())
	require.Zero(t, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
}

func TestRequest_SendsTenantHeaderOutsideAuthPaths(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	access, _ := f.signIn(t, f.tenant.ID)

	_, err := f.client.ListProjects(ctx)
	require.NoError(t, err)
	req, _ := f.backend.LastRequest(http.MethodGet, client.PathProjects)
	require.Equal(t, "Bearer "+access, req.Header.Get(client.HeaderAuth))
	require.Equal(t, jsonInt(f.tenant.ID), req.Header.Get(client.HeaderTenantID))
	require.Equal(t, "application/json", req.Header.Get(client.HeaderContentType))

	_, err = f.client.Me(ctx)
	require.NoError(t, err)
	req, _ = f.backend.LastRequest(http.MethodGet, client.PathMe)
	require.Empty(t, req.Header.Values(client.HeaderTenantID))
}

func TestRequest_RefreshesOnceOn401AndRetries(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	oldAccess, refresh := f.signIn(t, f.tenant.ID)
	f.backend.AddProject(tms.Project{TenantID: f.tenant.ID, Key: "WEB", Name: "Web"})
	f.backend.ExpireAccessTokens()

	projects, err := f.client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	require.Equal(t, 2, f.backend.Calls(http.MethodGet, client.PathProjects))
	require.Equal(t, 1, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))

	session := f.store.Session()
	require.NotEqual(t, oldAccess, session.AccessToken)
	require.Equal(t, refresh, session.RefreshToken)
	require.Equal(t, f.tenant.ID, session.TenantID)

	retry, _ := f.backend.LastRequest(http.MethodGet, client.PathProjects)
	require.Equal(t, "Bearer "+session.AccessToken, retry.Header.Get(client.HeaderAuth))

	refreshReq, _ := f.backend.LastRequest(http.MethodPost, client.PathTokenRefresh)
	require.Empty(t, refreshReq.Header.Values(client.HeaderAuth))
	require.Empty(t, refreshReq.Header.Values(client.HeaderTenantID))
	require.JSONEq(t, `{"refresh":"`+refresh+`"}`, string(refreshReq.Body))
}

func TestRequest_NoSecondRetry(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)
	f.backend.FailNext(http.MethodGet, client.PathProjects, http.StatusUnauthorized, `{"detail":"expired"}`)
	f.backend.FailNext(http.MethodGet, client.PathProjects, http.StatusUnauthorized, `{"detail":"still expired"}`)

	_, err := f.client.ListProjects(ctx)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.EqualError(t, err, "still expired")
	require.Equal(t, 2, f.backend.Calls(http.MethodGet, client.PathProjects))
	require.Equal(t, 1, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
}

func TestRequest_FailedRefreshSurfacesOriginal401(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)
	f.backend.ExpireAccessTokens()
	f.backend.RevokeRefreshTokens()

	_, err := f.client.ListProjects(ctx)
	require.ErrorIs(t, err, errors.ErrUnauthorized)
	require.Equal(t, 1, f.backend.Calls(http.MethodGet, client.PathProjects))
	require.Equal(t, 1, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
}

func TestRequest_401WithoutRefreshTokenDoesNotRefresh(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	access, _ := f.backend.IssueTokens(f.user.ID, f.tenant.ID)
	require.NoError(t, f.store.SetAuth(ctx, access, f.tenant.ID, ""))
	f.backend.ExpireAccessTokens()

	_, err := f.client.ListProjects(ctx)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, client.StatusCode(err))
	require.Zero(t, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
	require.Equal(t, 1, f.backend.Calls(http.MethodGet, client.PathProjects))
}

func TestRequest_StructuredFieldError(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)
	f.backend.FailNext(http.MethodPost, client.PathProjects, http.StatusBadRequest, `{"key":["project with this key already exists."],"name":["too long"]}`)

	_, err := f.client.CreateProject(ctx, tms.NewProject{Key: "web", Name: "Web"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "key", apiErr.Field)
	require.EqualError(t, err, "key: project with this key already exists.")
}

func TestRequest_TransportFailure(t *testing.T) {
	ctx := context.Background()
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := client.New(base, sessions.NewStore(sessionrepofakes.NewFakeKVRepo()))
	require.NoError(t, err)

	_, err = c.ListProjects(ctx)
	require.Error(t, err)
	require.Zero(t, client.StatusCode(err))
}

func TestRefreshAccess_PrefersPersistedToken(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	_, refresh := f.backend.IssueTokens(f.user.ID, 0)
	f.repo.Put(sessions.KeyAuth, `{"access":"stale","refresh":"`+refresh+`","tenant_id":`+jsonInt(f.tenant.ID)+`}`)

	require.True(t, f.client.RefreshAccess(ctx))

	session := f.store.Session()
	require.NotEqual(t, "stale", session.AccessToken)
	require.Equal(t, refresh, session.RefreshToken)
	require.Equal(t, f.tenant.ID, session.TenantID)
}

func TestRefreshAccess_AcceptsRotatedRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.backend.SetRotateRefresh(true)
	_, oldRefresh := f.signIn(t, f.tenant.ID)

	require.True(t, f.client.RefreshAccess(ctx))
	rotated := f.store.Session().RefreshToken
	require.NotEqual(t, oldRefresh, rotated)

	persisted, err := f.store.Persisted(ctx)
	require.NoError(t, err)
	require.Equal(t, rotated, persisted.RefreshToken)

	// the old token is gone, the rotated one still works
	require.True(t, f.client.RefreshAccess(ctx))
}

func TestRefreshAccess_NoTokenOrRejected(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	require.False(t, f.client.RefreshAccess(ctx))
	require.Zero(t, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))

	f.signIn(t, f.tenant.ID)
	f.backend.RevokeRefreshTokens()
	require.False(t, f.client.RefreshAccess(ctx))
	require.True(t, f.store.Session().Authenticated())
}

func TestRefreshAccess_StorageFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	oldAccess, _ := f.signIn(t, f.tenant.ID)
	f.repo.FailWrites = true

	require.True(t, f.client.RefreshAccess(ctx))
	require.NotEqual(t, oldAccess, f.store.Session().AccessToken)
}

func TestSwitchTenant(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	other := f.backend.AddTenant(tenants.Tenant{Name: "Beta", Slug: "beta"})
	f.backend.AddMembership(tenants.Membership{TenantID: other.ID, UserID: f.user.ID, RoleKey: tenants.RoleMember})
	_, refresh := f.signIn(t, f.tenant.ID)

	pair, err := f.client.SwitchTenant(ctx, other.ID)
	require.NoError(t, err)
	session := f.store.Session()
	require.Equal(t, pair.Access, session.AccessToken)
	require.Equal(t, other.ID, session.TenantID)
	require.Equal(t, refresh, session.RefreshToken)

	req, _ := f.backend.LastRequest(http.MethodPost, client.PathSwitchTenant)
	require.Empty(t, req.Header.Values(client.HeaderTenantID))

	_, err = f.client.SwitchTenant(ctx, 9999)
	require.ErrorIs(t, err, errors.ErrForbidden)
	require.Equal(t, other.ID, f.store.Session().TenantID)
}

func TestRegisterAndMe(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)

	created, err := f.client.Register(ctx, users.RegisterRequest{Email: " grace@example.com ", Password: "pw", FirstName: "Grace"})
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", created.Email)

	_, err = f.client.Register(ctx, users.RegisterRequest{Email: "grace@example.com", Password: "pw"})
	require.EqualError(t, err, "email: A user with that email already exists.")

	_, err = f.client.Register(ctx, users.RegisterRequest{Email: "x@example.com"})
	require.ErrorIs(t, err, errors.ErrRequiredField)

	_, err = f.client.Login(ctx, "grace@example.com", "pw", 0)
	require.NoError(t, err)
	me, err := f.client.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, created.ID, me.ID)
	require.Equal(t, "Grace", me.DisplayName())
}

func TestOrgs(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)

	created, err := f.client.CreateTenant(ctx, tenants.Input{Name: "New Team"})
	require.NoError(t, err)
	require.Equal(t, "new-team", created.Slug)

	list, err := f.client.ListTenants(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	updated, err := f.client.UpdateTenant(ctx, created.ID, tenants.Input{Name: "Renamed", Slug: "renamed"})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	_, err = f.client.UpdateTenant(ctx, 0, tenants.Input{Name: "x"})
	require.ErrorIs(t, err, errors.ErrRequiredField)

	mine, err := f.client.ListMemberships(ctx, client.MembershipFilter{UserID: f.user.ID})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	req, _ := f.backend.LastRequest(http.MethodGet, client.PathMemberships)
	require.Equal(t, "user_id="+jsonInt(f.user.ID), req.Query)

	members, err := f.client.ListMemberships(ctx, client.MembershipFilter{TenantID: created.ID})
	require.NoError(t, err)
	require.Len(t, members, 1)

	require.NoError(t, f.client.DeleteMembership(ctx, members[0].ID))
	require.ErrorIs(t, f.client.DeleteMembership(ctx, members[0].ID), errors.ErrNotFound)

	inv, err := f.client.CreateInvitation(ctx, tenants.Invitation{TenantID: f.tenant.ID, Email: "new@example.com"})
	require.NoError(t, err)
	require.Equal(t, "pending", inv.Status)
	_, err = f.client.CreateInvitation(ctx, tenants.Invitation{TenantID: f.tenant.ID})
	require.ErrorIs(t, err, errors.ErrRequiredField)
}

func TestTMS(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)

	project, err := f.client.CreateProject(ctx, tms.NewProject{Key: " web ", Name: "Web"})
	require.NoError(t, err)
	require.Equal(t, "WEB", project.Key)
	require.Equal(t, f.tenant.ID, project.TenantID)

	_, err = f.client.CreateProject(ctx, tms.NewProject{Name: "No key"})
	require.ErrorIs(t, err, errors.ErrRequiredField)
	require.Equal(t, 1, f.backend.Calls(http.MethodPost, client.PathProjects))

	section, err := f.client.CreateSection(ctx, tms.NewSection{ProjectID: project.ID, Name: "Login"})
	require.NoError(t, err)
	_, err = f.client.CreateTestCase(ctx, tms.NewTestCase{ProjectID: project.ID, SectionID: &section.ID, Title: "valid login", Steps: json.RawMessage(`[{"action":"open"}]`)})
	require.NoError(t, err)
	release, err := f.client.CreateRelease(ctx, tms.NewRelease{ProjectID: project.ID, Name: "R1", DueDate: "2026-11-01"})
	require.NoError(t, err)
	plan, err := f.client.CreatePlan(ctx, tms.NewPlan{ProjectID: project.ID, Name: "Smoke", ReleaseID: &release.ID})
	require.NoError(t, err)
	run, err := f.client.CreateRun(ctx, tms.NewRun{ProjectID: project.ID, PlanID: &plan.ID, Name: "Nightly"})
	require.NoError(t, err)
	require.Equal(t, tms.RunStatusPlanned, run.Status)

	name := "Smoke v2"
	updated, err := f.client.UpdatePlan(ctx, plan.ID, tms.PlanUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, plan.Description, updated.Description)

	sections, err := f.client.ListSections(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	cases, err := f.client.ListTestCases(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	require.Equal(t, tms.CaseStatusDraft, cases[0].Status)
	plans, err := f.client.ListPlans(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	runs, err := f.client.ListRuns(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	releases, err := f.client.ListReleases(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, releases, 1)

	req, _ := f.backend.LastRequest(http.MethodGet, client.PathRuns)
	require.Equal(t, "project="+jsonInt(project.ID), req.Query)

	empty, err := f.client.ListRuns(ctx, project.ID+1000)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestList_FollowsCursorPages(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.signIn(t, f.tenant.ID)
	for _, key := range []string{"A", "B", "C", "D", "E"} {
		f.backend.AddProject(tms.Project{TenantID: f.tenant.ID, Key: key, Name: key})
	}
	f.backend.SetPageSize(2)

	projects, err := f.client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 5)
	require.Equal(t, 3, f.backend.Calls(http.MethodGet, client.PathProjects))

	// every page carries the tenant header, cursor links included
	for _, req := range f.backend.Requests() {
		if req.Path == client.PathProjects {
			require.Equal(t, jsonInt(f.tenant.ID), req.Header.Get(client.HeaderTenantID))
		}
	}
}

func TestList_PageLimit(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t, client.WithPageLimit(2))
	f.signIn(t, f.tenant.ID)
	for _, key := range []string{"A", "B", "C", "D", "E"} {
		f.backend.AddProject(tms.Project{TenantID: f.tenant.ID, Key: key, Name: key})
	}
	f.backend.SetPageSize(2)

	projects, err := f.client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 4)
}

func TestList_Envelopes(t *testing.T) {
	ctx := context.Background()
	for _, envelope := range []string{fakebackend.EnvelopeArray, fakebackend.EnvelopeData, fakebackend.EnvelopeResults} {
		t.Run(envelope, func(t *testing.T) {
			f := setupTest(t)
			f.signIn(t, f.tenant.ID)
			f.backend.SetEnvelope(envelope)

			list, err := f.client.ListTenants(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			require.Equal(t, "Acme", list[0].Name)
		})
	}
}

func TestTokenSource(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)

	_, err := f.client.TokenSource(ctx).Token()
	require.ErrorIs(t, err, errors.ErrNotAuthenticated)

	access, _ := f.signIn(t, f.tenant.ID)
	tok, err := f.client.TokenSource(ctx).Token()
	require.NoError(t, err)
	require.Equal(t, access, tok.AccessToken)
	require.True(t, tok.Expiry.After(time.Now()))
	require.Zero(t, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
}

func TestTokenSource_RefreshesExpiredToken(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.backend.SetAccessTTL(-time.Minute)
	expired, _ := f.signIn(t, f.tenant.ID)
	f.backend.SetAccessTTL(15 * time.Minute)

	tok, err := f.client.TokenSource(ctx).Token()
	require.NoError(t, err)
	require.NotEqual(t, expired, tok.AccessToken)
	require.True(t, tok.Valid())
	require.Equal(t, 1, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))

	f.backend.SetAccessTTL(-time.Minute)
	f.signIn(t, f.tenant.ID)
	f.backend.RevokeRefreshTokens()
	_, err = f.client.TokenSource(ctx).Token()
	require.ErrorIs(t, err, errors.ErrRefreshFailed)
}

func jsonInt(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}

func TestTokenSource_ExpiredWithoutRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := setupTest(t)
	f.backend.SetAccessTTL(-time.Minute)
	access, _ := f.backend.IssueTokens(f.user.ID, f.tenant.ID)
	require.NoError(t, f.store.SetAuth(ctx, access, f.tenant.ID, ""))

	_, err := f.client.TokenSource(ctx).Token()
	require.ErrorIs(t, err, errors.ErrNoRefreshToken)
	require.Zero(t, f.backend.Calls(http.MethodPost, client.PathTokenRefresh))
}
