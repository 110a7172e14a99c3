package views

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/tms"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Section names a dashboard area with its own status banner.
type Section string

const (
	SectionTenants   Section = "tenants"
	SectionProjects  Section = "projects"
	SectionPlans     Section = "plans"
	SectionRuns      Section = "runs"
	SectionSections  Section = "sections"
	SectionTestCases Section = "cases"
	SectionReleases  Section = "releases"
)

// DashboardData is a snapshot of what the dashboard shows.
type DashboardData struct {
	TenantID        int64              `json:"tenant_id"`
	TenantName      string             `json:"tenant_name,omitempty"`
	Projects        []tms.Project      `json:"projects"`
	SelectedProject int64              `json:"selected_project,omitempty"`
	Plans           []tms.Plan         `json:"plans"`
	Runs            []tms.Run          `json:"runs"`
	Sections        []tms.Section      `json:"sections"`
	TestCases       []tms.TestCase     `json:"test_cases"`
	Releases        []tms.Release      `json:"releases"`
	Status          map[Section]Status `json:"status,omitempty"`
}

// DashboardView manages the projects of the active tenant and the plans, runs, sections,
// test cases and releases of the selected project.
type DashboardView struct {
	base
	auth authctx.Context
	api  DashboardAPI

	lock sync.RWMutex
	data DashboardData
}

func NewDashboardView(auth authctx.Context, api DashboardAPI, options ...Option) *DashboardView {
	return &DashboardView{
		base: newBase(options),
		auth: auth,
		api:  api,
		data: DashboardData{Status: map[Section]Status{}},
	}
}

// Data returns a copy of the current snapshot.
func (v *DashboardView) Data() DashboardData {
	v.lock.RLock()
	defer v.lock.RUnlock()
	d := v.data
	d.Status = make(map[Section]Status, len(v.data.Status))
	for k, s := range v.data.Status {
		d.Status[k] = s
	}
	return d
}

func (v *DashboardView) Status(section Section) Status {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.data.Status[section]
}

func (v *DashboardView) setStatus(section Section, status Status) Status {
	v.lock.Lock()
	defer v.lock.Unlock()
	if status.Empty() {
		delete(v.data.Status, section)
	} else {
		v.data.Status[section] = status
	}
	return status
}

// Refresh reloads the project list of the active tenant. The selected project survives if
// it still exists, otherwise the first project is selected; its data is then reloaded.
func (v *DashboardView) Refresh(ctx context.Context) Status {
	v.auth.EnsureFreshTenants(ctx)

	tenantID := v.auth.CurrentTenant()
	v.lock.Lock()
	v.data.TenantID = tenantID
	v.data.TenantName = ""
	if tenantID != 0 {
		v.data.TenantName = v.auth.TenantNameByID(tenantID)
	}
	v.lock.Unlock()

	if tenantID == 0 {
		v.resetProjects(nil, 0)
		return v.setStatus(SectionProjects, Info("Select a tenant to see its projects"))
	}

	projects, err := v.api.ListProjects(ctx)
	if err != nil {
		v.resetProjects(nil, 0)
		return v.setStatus(SectionProjects, v.fail(pkgerrors.Wrap(err, "loading projects"), "refresh"))
	}
	v.setStatus(SectionProjects, Status{})

	v.lock.RLock()
	selected := v.data.SelectedProject
	v.lock.RUnlock()
	if !containsProject(projects, selected) {
		selected = 0
		if len(projects) > 0 {
			selected = projects[0].ID
		}
	}
	v.resetProjects(projects, selected)

	if selected != 0 {
		v.loadProjectData(ctx, selected)
	}
	return Status{}
}

// SelectProject makes projectID current and loads its data.
func (v *DashboardView) SelectProject(ctx context.Context, projectID int64) Status {
	v.lock.RLock()
	known := containsProject(v.data.Projects, projectID)
	v.lock.RUnlock()
	if !known {
		return v.setStatus(SectionProjects, v.fail(fmt.Errorf("project %d: %w", projectID, errors.ErrNotFound), "select project"))
	}
	v.lock.Lock()
	v.data.SelectedProject = projectID
	v.lock.Unlock()
	v.loadProjectData(ctx, projectID)
	return Status{}
}

// SwitchTenant activates tenantID and reloads the dashboard.
func (v *DashboardView) SwitchTenant(ctx context.Context, tenantID int64) Status {
	if err := v.auth.SwitchTenant(ctx, tenantID); err != nil {
		return v.setStatus(SectionTenants, v.fail(err, "switch tenant"))
	}
	v.lock.Lock()
	v.data.SelectedProject = 0
	v.lock.Unlock()
	v.Refresh(ctx)
	return v.setStatus(SectionTenants, Success("Switched to %s", v.auth.TenantNameByID(tenantID)))
}

// CreateTenant creates a tenant and switches to it. The slug is derived from the name when
// empty and must not already be in use among the caller's tenants.
func (v *DashboardView) CreateTenant(ctx context.Context, in tenants.Input) Status {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return v.setStatus(SectionTenants, v.fail(err, "create tenant"))
	}
	if tenants.SlugTaken(v.auth.Tenants(), in.Slug) {
		return v.setStatus(SectionTenants, v.fail(fmt.Errorf("slug %q: %w", in.Slug, errors.ErrTenantSlugTaken), "create tenant"))
	}

	created, err := v.api.CreateTenant(ctx, in)
	if err != nil {
		return v.setStatus(SectionTenants, v.fail(err, "create tenant"))
	}
	if err := v.auth.RefreshTenants(ctx); err != nil {
		v.log.Warn().Err(err).Msg("tenants not refreshed after create")
	}
	if err := v.auth.RefreshMemberships(ctx); err != nil {
		v.log.Warn().Err(err).Msg("memberships not refreshed after create")
	}
	if err := v.auth.SwitchTenant(ctx, created.ID); err != nil {
		v.log.Warn().Err(err).Int64("tenant_id", created.ID).Msg("created tenant not activated")
		return v.setStatus(SectionTenants, Info("Tenant %s created; switch to it to start", created.Name))
	}

	v.lock.Lock()
	v.data.SelectedProject = 0
	v.lock.Unlock()
	v.Refresh(ctx)
	return v.setStatus(SectionTenants, Success("Tenant %s created", created.Name))
}

func (v *DashboardView) CreateProject(ctx context.Context, p tms.NewProject) Status {
	if v.auth.CurrentTenant() == 0 {
		return v.setStatus(SectionProjects, v.fail(errors.ErrNoTenant, "create project"))
	}
	created, err := v.api.CreateProject(ctx, p)
	if err != nil {
		return v.setStatus(SectionProjects, v.fail(err, "create project"))
	}
	v.lock.Lock()
	v.data.SelectedProject = created.ID
	v.lock.Unlock()
	if status := v.Refresh(ctx); status.IsError() {
		return status
	}
	return v.setStatus(SectionProjects, Success("Project %s created", created.Key))
}

func (v *DashboardView) CreatePlan(ctx context.Context, p tms.NewPlan) Status {
	projectID, status := v.projectFor(SectionPlans, p.ProjectID)
	if status.IsError() {
		return status
	}
	p.ProjectID = projectID
	created, err := v.api.CreatePlan(ctx, p)
	if err != nil {
		return v.setStatus(SectionPlans, v.fail(err, "create plan"))
	}
	v.loadProjectData(ctx, projectID)
	return v.setStatus(SectionPlans, Success("Plan %s created", created.Name))
}

func (v *DashboardView) UpdatePlan(ctx context.Context, planID int64, update tms.PlanUpdate) Status {
	updated, err := v.api.UpdatePlan(ctx, planID, update)
	if err != nil {
		return v.setStatus(SectionPlans, v.fail(err, "update plan"))
	}
	v.lock.Lock()
	for i := range v.data.Plans {
		if v.data.Plans[i].ID == updated.ID {
			v.data.Plans[i] = updated
		}
	}
	v.lock.Unlock()
	return v.setStatus(SectionPlans, Success("Plan %s updated", updated.Name))
}

func (v *DashboardView) CreateRun(ctx context.Context, r tms.NewRun) Status {
	projectID, status := v.projectFor(SectionRuns, r.ProjectID)
	if status.IsError() {
		return status
	}
	r.ProjectID = projectID
	created, err := v.api.CreateRun(ctx, r)
	if err != nil {
		return v.setStatus(SectionRuns, v.fail(err, "create run"))
	}
	v.loadProjectData(ctx, projectID)
	return v.setStatus(SectionRuns, Success("Run %s created", created.Name))
}

func (v *DashboardView) CreateSection(ctx context.Context, s tms.NewSection) Status {
	projectID, status := v.projectFor(SectionSections, s.ProjectID)
	if status.IsError() {
		return status
	}
	s.ProjectID = projectID
	created, err := v.api.CreateSection(ctx, s)
	if err != nil {
		return v.setStatus(SectionSections, v.fail(err, "create section"))
	}
	v.loadProjectData(ctx, projectID)
	return v.setStatus(SectionSections, Success("Section %s created", created.Name))
}

func (v *DashboardView) CreateTestCase(ctx context.Context, tc tms.NewTestCase) Status {
	projectID, status := v.projectFor(SectionTestCases, tc.ProjectID)
	if status.IsError() {
		return status
	}
	tc.ProjectID = projectID
	created, err := v.api.CreateTestCase(ctx, tc)
	if err != nil {
		return v.setStatus(SectionTestCases, v.fail(err, "create test case"))
	}
	v.loadProjectData(ctx, projectID)
	return v.setStatus(SectionTestCases, Success("Test case %s created", created.Title))
}

func (v *DashboardView) CreateRelease(ctx context.Context, r tms.NewRelease) Status {
	projectID, status := v.projectFor(SectionReleases, r.ProjectID)
	if status.IsError() {
		return status
	}
	r.ProjectID = projectID
	created, err := v.api.CreateRelease(ctx, r)
	if err != nil {
		return v.setStatus(SectionReleases, v.fail(err, "create release"))
	}
	v.loadProjectData(ctx, projectID)
	return v.setStatus(SectionReleases, Success("Release %s created", created.Name))
}

// projectFor resolves the project an action targets: the explicit id, else the selection.
func (v *DashboardView) projectFor(section Section, projectID int64) (int64, Status) {
	if projectID != 0 {
		return projectID, Status{}
	}
	v.lock.RLock()
	projectID = v.data.SelectedProject
	v.lock.RUnlock()
	if projectID == 0 {
		return 0, v.setStatus(section, v.fail(errors.Required("project"), string(section)))
	}
	return projectID, Status{}
}

// loadProjectData fetches the project's lists concurrently. Each list fails on its own.
func (v *DashboardView) loadProjectData(ctx context.Context, projectID int64) {
	var g errgroup.Group
	g.Go(func() error {
		list, err := v.api.ListPlans(ctx, projectID)
		storeList(v, SectionPlans, &v.data.Plans, list, err)
		return nil
	})
	g.Go(func() error {
		list, err := v.api.ListRuns(ctx, projectID)
		storeList(v, SectionRuns, &v.data.Runs, list, err)
		return nil
	})
	g.Go(func() error {
		list, err := v.api.ListSections(ctx, projectID)
		storeList(v, SectionSections, &v.data.Sections, list, err)
		return nil
	})
	g.Go(func() error {
		list, err := v.api.ListTestCases(ctx, projectID)
		storeList(v, SectionTestCases, &v.data.TestCases, list, err)
		return nil
	})
	g.Go(func() error {
		list, err := v.api.ListReleases(ctx, projectID)
		storeList(v, SectionReleases, &v.data.Releases, list, err)
		return nil
	})
	_ = g.Wait()
}

// storeList replaces one project list. A failed load empties it so nothing from the
// previous project stays on screen.
func storeList[T any](v *DashboardView, section Section, dst *[]T, list []T, err error) {
	var status Status
	if err != nil {
		list = nil
		status = v.fail(pkgerrors.Wrapf(err, "loading %s", section), "load")
	}
	v.lock.Lock()
	defer v.lock.Unlock()
	*dst = list
	if status.Empty() {
		delete(v.data.Status, section)
	} else {
		v.data.Status[section] = status
	}
}

func (v *DashboardView) resetProjects(projects []tms.Project, selected int64) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.data.Projects = projects
	v.data.SelectedProject = selected
	v.data.Plans = nil
	v.data.Runs = nil
	v.data.Sections = nil
	v.data.TestCases = nil
	v.data.Releases = nil
}

func containsProject(projects []tms.Project, id int64) bool {
	if id == 0 {
		return false
	}
	for _, p := range projects {
		if p.ID == id {
			return true
		}
	}
	return false
}
