package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tms"
)

const (
	PathProjects  = "/tms/api/projects/"
	PathSections  = "/tms/api/sections/"
	PathTestCases = "/tms/api/testcases/"
	PathPlans     = "/tms/api/plans/"
	PathRuns      = "/tms/api/runs/"
	PathReleases  = "/tms/api/releases/"
)

type validator interface {
	Validate() error
}

// create validates payload and POSTs it to path.
func create[T any](ctx context.Context, c *Client, path string, payload validator) (T, error) {
	var created T
	if err := payload.Validate(); err != nil {
		return created, err
	}
	if err := c.Request(ctx, http.MethodPost, path, payload, &created); err != nil {
		return created, err
	}
	return created, nil
}

func byProject(path string, projectID int64) string {
	return withQuery(path, map[string]int64{"project": projectID})
}

// ListProjects lists the projects of the active tenant.
func (c *Client) ListProjects(ctx context.Context) ([]tms.Project, error) {
	return listAll[tms.Project](ctx, c, PathProjects)
}

func (c *Client) CreateProject(ctx context.Context, p tms.NewProject) (tms.Project, error) {
	p.Normalize()
	return create[tms.Project](ctx, c, PathProjects, p)
}

func (c *Client) ListSections(ctx context.Context, projectID int64) ([]tms.Section, error) {
	return listAll[tms.Section](ctx, c, byProject(PathSections, projectID))
}

func (c *Client) CreateSection(ctx context.Context, s tms.NewSection) (tms.Section, error) {
	s.Normalize()
	return create[tms.Section](ctx, c, PathSections, s)
}

func (c *Client) ListTestCases(ctx context.Context, projectID int64) ([]tms.TestCase, error) {
	return listAll[tms.TestCase](ctx, c, byProject(PathTestCases, projectID))
}

func (c *Client) CreateTestCase(ctx context.Context, tc tms.NewTestCase) (tms.TestCase, error) {
	tc.Normalize()
	return create[tms.TestCase](ctx, c, PathTestCases, tc)
}

func (c *Client) ListPlans(ctx context.Context, projectID int64) ([]tms.Plan, error) {
	return listAll[tms.Plan](ctx, c, byProject(PathPlans, projectID))
}

func (c *Client) CreatePlan(ctx context.Context, p tms.NewPlan) (tms.Plan, error) {
	p.Normalize()
	return create[tms.Plan](ctx, c, PathPlans, p)
}

// UpdatePlan patches only the fields set in update.
func (c *Client) UpdatePlan(ctx context.Context, planID int64, update tms.PlanUpdate) (tms.Plan, error) {
	if planID == 0 {
		return tms.Plan{}, errors.Required("plan")
	}
	if err := update.Validate(); err != nil {
		return tms.Plan{}, err
	}
	var updated tms.Plan
	if err := c.Request(ctx, http.MethodPatch, fmt.Sprintf("%s%d/", PathPlans, planID), update, &updated); err != nil {
		return tms.Plan{}, err
	}
	return updated, nil
}

func (c *Client) ListRuns(ctx context.Context, projectID int64) ([]tms.Run, error) {
	return listAll[tms.Run](ctx, c, byProject(PathRuns, projectID))
}

func (c *Client) CreateRun(ctx context.Context, r tms.NewRun) (tms.Run, error) {
	r.Normalize()
	return create[tms.Run](ctx, c, PathRuns, r)
}

func (c *Client) ListReleases(ctx context.Context, projectID int64) ([]tms.Release, error) {
	return listAll[tms.Release](ctx, c, byProject(PathReleases, projectID))
}

func (c *Client) CreateRelease(ctx context.Context, r tms.NewRelease) (tms.Release, error) {
	r.Normalize()
	return create[tms.Release](ctx, c, PathReleases, r)
}
