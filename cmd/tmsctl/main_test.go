package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-tms-client/internal/fakebackend"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/jrsteele09/go-tms-client/users"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "s3cret"
)

type cliFixture struct {
	backend *fakebackend.Backend
	user    users.User
}

// setupCLI points the CLI at a fake backend and keeps session files under a temp config dir.
func setupCLI(t *testing.T) *cliFixture {
	t.Helper()
	f := &cliFixture{backend: fakebackend.New(t)}
	f.user = f.backend.AddUser(users.User{Email: testEmail, FirstName: "Ada"}, testPassword)
	f.backend.AddTenant(tenants.Tenant{ID: 5, Name: "Acme", Slug: "acme"})
	f.backend.AddMembership(tenants.Membership{TenantID: 5, UserID: f.user.ID, RoleKey: tenants.RoleOwner})

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TMS_API_BASE", f.backend.URL())
	t.Setenv("TMS_SESSION_BACKEND", "file")
	t.Setenv("TMS_SESSION_FILE", "")
	t.Setenv("TMS_PROFILE", "")
	return f
}

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	a := &app{}
	defer a.Close()

	root := newRootCmd(a)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (f *cliFixture) login(t *testing.T) {
	t.Helper()
	_, stderr, err := execute(t, "", "login", "-u", testEmail, "-p", testPassword)
	require.NoError(t, err)
	require.Contains(t, stderr, "Signed in as Ada (Acme)")
}

func TestLogin_PersistsAcrossInvocations(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	stdout, _, err := execute(t, "", "whoami", "-o", "json")
	require.NoError(t, err)

	var info struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		TenantID   int64  `json:"tenant_id"`
		TenantName string `json:"tenant_name"`
		Role       string `json:"role"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	require.Equal(t, testEmail, info.User.Email)
	require.Equal(t, int64(5), info.TenantID)
	require.Equal(t, "Acme", info.TenantName)
	require.Equal(t, tenants.RoleOwner, info.Role)
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	setupCLI(t)
	_, stderr, err := execute(t, testPassword+"\n", "login", "-u", testEmail)
	require.NoError(t, err)
	require.Contains(t, stderr, "Signed in as Ada")
}

func TestLogin_BadCredentials(t *testing.T) {
	setupCLI(t)
	_, _, err := execute(t, "", "login", "-u", testEmail, "-p", "wrong")
	require.Error(t, err)

	_, _, err = execute(t, "", "whoami")
	require.ErrorContains(t, err, "not authenticated")
}

func TestLogout(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	_, stderr, err := execute(t, "", "logout")
	require.NoError(t, err)
	require.Contains(t, stderr, "Signed out")

	_, _, err = execute(t, "", "projects", "list")
	require.ErrorContains(t, err, "not authenticated")
}

func TestProfilesAreSeparate(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	_, _, err := execute(t, "", "whoami", "--profile", "staging")
	require.ErrorContains(t, err, "not authenticated")
}

func TestProjects_QueryAndFormats(t *testing.T) {
	f := setupCLI(t)
	f.backend.AddProject(tms.Project{TenantID: 5, Key: "WEB", Name: "Web"})
	f.backend.AddProject(tms.Project{TenantID: 5, Key: "API", Name: "Api"})
	f.backend.AddProject(tms.Project{TenantID: 99, Key: "OTHER", Name: "Other tenant"})
	f.login(t)

	stdout, _, err := execute(t, "", "projects", "list", "--query", "[].key")
	require.NoError(t, err)
	require.JSONEq(t, `["WEB","API"]`, stdout)

	stdout, _, err = execute(t, "", "projects", "list", "-o", "yaml")
	require.NoError(t, err)
	require.Contains(t, stdout, "key: WEB")

	stdout, _, err = execute(t, "", "projects", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "KEY")
	require.Contains(t, stdout, "WEB")
	require.NotContains(t, stdout, "OTHER")
}

func TestPlans_CreateInFirstProject(t *testing.T) {
	f := setupCLI(t)
	project := f.backend.AddProject(tms.Project{TenantID: 5, Key: "WEB", Name: "Web"})
	f.login(t)

	_, stderr, err := execute(t, "", "plans", "create", "--name", "Regression")
	require.NoError(t, err)
	require.Contains(t, stderr, "Plan Regression created")

	stdout, _, err := execute(t, "", "plans", "list", "--project", jsonInt(project.ID), "-o", "json")
	require.NoError(t, err)
	var plans []tms.Plan
	require.NoError(t, json.Unmarshal([]byte(stdout), &plans))
	require.Len(t, plans, 1)
	require.Equal(t, project.ID, plans[0].ProjectID)
}

func TestTenants_CreateSwitchesAndLists(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	_, stderr, err := execute(t, "", "tenants", "create", "--name", "Beta Labs")
	require.NoError(t, err)
	require.Contains(t, stderr, "Tenant Beta Labs created")

	stdout, _, err := execute(t, "", "tenants", "list", "--query", "[?active].slug | [0]")
	require.NoError(t, err)
	require.JSONEq(t, `"beta-labs"`, stdout)
}

func TestTenants_CreateRejectsTakenSlug(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	_, _, err := execute(t, "", "tenants", "create", "--name", "ACME")
	require.EqualError(t, err, `slug "acme": tenant slug already in use`)
}

func TestDashboard(t *testing.T) {
	f := setupCLI(t)
	f.backend.AddProject(tms.Project{TenantID: 5, Key: "WEB", Name: "Web"})
	f.login(t)

	stdout, _, err := execute(t, "", "dashboard")
	require.NoError(t, err)
	require.Contains(t, stdout, "Acme")
	require.Contains(t, stdout, "* ")
	require.Contains(t, stdout, "plans:")
}

func TestPrefs(t *testing.T) {
	f := setupCLI(t)
	f.login(t)

	_, stderr, err := execute(t, "", "prefs", "set", "--theme", "dark", "--preferred-tenant", "5")
	require.NoError(t, err)
	require.Contains(t, stderr, "Profile saved")

	stdout, _, err := execute(t, "", "prefs", "show", "-o", "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"displayName":"Ada","theme":"dark","preferredTenant":5}`, jsonField(t, stdout, "profile"))
	require.JSONEq(t, `{"remember":true,"email":"ada@example.com","tenant_id":null}`, jsonField(t, stdout, "login"))

	_, _, err = execute(t, "", "prefs", "set", "--preferred-tenant", "42")
	require.ErrorContains(t, err, "not allowed to manage tenant")
}

func TestGlobalFlags(t *testing.T) {
	setupCLI(t)

	_, _, err := execute(t, "", "status", "-o", "xml")
	require.ErrorContains(t, err, "valid options: table, json, yaml")

	stdout, _, err := execute(t, "", "status", "--query", "state")
	require.NoError(t, err)
	require.JSONEq(t, `"anonymous"`, stdout)

	stdout, _, err = execute(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, stdout, "tmsctl dev")
}

func jsonInt(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func jsonField(t *testing.T, doc, field string) string {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &m))
	return string(m[field])
}
