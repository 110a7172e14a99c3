package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tms"
)

// projectID returns flag, or the first project of the active tenant when flag is 0.
func (a *app) projectID(ctx context.Context, flag int64) (int64, error) {
	if flag != 0 {
		return flag, nil
	}
	projects, err := a.api.ListProjects(ctx)
	if err != nil {
		return 0, err
	}
	if len(projects) == 0 {
		return 0, fmt.Errorf("%w: create one with `tmsctl projects create`", errors.Required("project"))
	}
	return projects[0].ID, nil
}

func addProjectFlag(cmd *cobra.Command, projectID *int64) {
	cmd.Flags().Int64Var(projectID, "project", 0, "project id (default: the first project)")
}

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Aliases: []string{"project"}, Short: "Projects of the active tenant"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projects, err := a.api.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.render(projects, func(w io.Writer) error {
				if err := writeln(w, "ID\tKEY\tNAME\tDESCRIPTION"); err != nil {
					return err
				}
				for _, p := range projects {
					if err := writef(w, "%d\t%s\t%s\t%s\n", p.ID, p.Key, p.Name, orDash(p.Description)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	var in tms.NewProject
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			return a.report(a.dashboardView().CreateProject(cmd.Context(), in))
		},
	}
	create.Flags().StringVar(&in.Key, "key", "", "short project key, e.g. WEB")
	create.Flags().StringVar(&in.Name, "name", "", "project name")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	_ = create.MarkFlagRequired("key")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}

func newSectionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "sections", Aliases: []string{"section"}, Short: "Test case sections of a project"}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projectID, err := a.projectID(cmd.Context(), listProject)
			if err != nil {
				return err
			}
			sections, err := a.api.ListSections(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return a.out.render(sections, func(w io.Writer) error {
				if err := writeln(w, "ID\tNAME\tPARENT"); err != nil {
					return err
				}
				for _, s := range sections {
					if err := writef(w, "%d\t%s\t%s\n", s.ID, s.Name, idOrDash(s.ParentID)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addProjectFlag(list, &listProject)

	var (
		in     tms.NewSection
		parent int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			var err error
			if in.ProjectID, err = a.projectID(cmd.Context(), in.ProjectID); err != nil {
				return err
			}
			if parent != 0 {
				in.ParentID = &parent
			}
			return a.report(a.dashboardView().CreateSection(cmd.Context(), in))
		},
	}
	addProjectFlag(create, &in.ProjectID)
	create.Flags().StringVar(&in.Name, "name", "", "section name")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().Int64Var(&parent, "parent", 0, "parent section id")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}

func newCasesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "cases", Aliases: []string{"case", "testcases"}, Short: "Test cases of a project"}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List test cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projectID, err := a.projectID(cmd.Context(), listProject)
			if err != nil {
				return err
			}
			cases, err := a.api.ListTestCases(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return a.out.render(cases, func(w io.Writer) error {
				if err := writeln(w, "ID\tTITLE\tSECTION\tSTATUS\tVERSION\tTAGS"); err != nil {
					return err
				}
				for _, c := range cases {
					if err := writef(w, "%d\t%s\t%s\t%s\t%d\t%s\n",
						c.ID, c.Title, idOrDash(c.SectionID), orDash(c.Status), c.Version, orDash(strings.Join(c.Tags, ","))); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addProjectFlag(list, &listProject)

	var (
		in      tms.NewTestCase
		section int64
		steps   string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a test case",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			var err error
			if in.ProjectID, err = a.projectID(cmd.Context(), in.ProjectID); err != nil {
				return err
			}
			if section != 0 {
				in.SectionID = &section
			}
			if steps != "" {
				in.Steps = json.RawMessage(steps)
			}
			return a.report(a.dashboardView().CreateTestCase(cmd.Context(), in))
		},
	}
	addProjectFlag(create, &in.ProjectID)
	create.Flags().StringVar(&in.Title, "title", "", "test case title")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().Int64Var(&section, "section", 0, "section id")
	create.Flags().StringVar(&steps, "steps", "", `steps as JSON, e.g. '[{"action":"open","expected":"page"}]'`)
	create.Flags().StringSliceVar(&in.Tags, "tag", nil, "tag (repeatable)")
	create.Flags().StringVar(&in.Status, "status", "", "draft, active or deprecated (backend default: draft)")
	_ = create.MarkFlagRequired("title")

	cmd.AddCommand(list, create)
	return cmd
}

func newPlansCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "plans", Aliases: []string{"plan"}, Short: "Test plans of a project"}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projectID, err := a.projectID(cmd.Context(), listProject)
			if err != nil {
				return err
			}
			plans, err := a.api.ListPlans(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return a.out.render(plans, func(w io.Writer) error {
				if err := writeln(w, "ID\tNAME\tRELEASE\tDESCRIPTION"); err != nil {
					return err
				}
				for _, p := range plans {
					if err := writef(w, "%d\t%s\t%s\t%s\n", p.ID, p.Name, idOrDash(p.ReleaseID), orDash(p.Description)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addProjectFlag(list, &listProject)

	var (
		in      tms.NewPlan
		release int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			var err error
			if in.ProjectID, err = a.projectID(cmd.Context(), in.ProjectID); err != nil {
				return err
			}
			if release != 0 {
				in.ReleaseID = &release
			}
			return a.report(a.dashboardView().CreatePlan(cmd.Context(), in))
		},
	}
	addProjectFlag(create, &in.ProjectID)
	create.Flags().StringVar(&in.Name, "name", "", "plan name")
	create.Flags().StringVar(&in.Description, "description", "", "description")
	create.Flags().Int64Var(&release, "release", 0, "release id")
	_ = create.MarkFlagRequired("name")

	var (
		name, description string
		updateRelease     int64
	)
	update := &cobra.Command{
		Use:   "update <plan-id>",
		Short: "Change the name, description or release of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			planID, err := parseID("plan", args[0])
			if err != nil {
				return err
			}
			var u tms.PlanUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("release") {
				u.ReleaseID = &updateRelease
			}
			return a.report(a.dashboardView().UpdatePlan(cmd.Context(), planID, u))
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&description, "description", "", "new description")
	update.Flags().Int64Var(&updateRelease, "release", 0, "release id")

	cmd.AddCommand(list, create, update)
	return cmd
}

func newRunsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "runs", Aliases: []string{"run"}, Short: "Test runs of a project"}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projectID, err := a.projectID(cmd.Context(), listProject)
			if err != nil {
				return err
			}
			runs, err := a.api.ListRuns(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return a.out.render(runs, func(w io.Writer) error {
				if err := writeln(w, "ID\tNAME\tPLAN\tSTATUS\tSCHEDULED"); err != nil {
					return err
				}
				for _, r := range runs {
					scheduled := "-"
					if r.ScheduledAt != nil {
						scheduled = r.ScheduledAt.Local().Format(time.RFC3339)
					}
					if err := writef(w, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Name, idOrDash(r.PlanID), orDash(r.Status), scheduled); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addProjectFlag(list, &listProject)

	var (
		in        tms.NewRun
		plan      int64
		scheduled string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			var err error
			if in.ProjectID, err = a.projectID(cmd.Context(), in.ProjectID); err != nil {
				return err
			}
			if plan != 0 {
				in.PlanID = &plan
			}
			if scheduled != "" {
				at, err := time.Parse(time.RFC3339, scheduled)
				if err != nil {
					return errors.Wrapf(errors.ErrInvalidRequest, "scheduled %q must be RFC 3339", scheduled)
				}
				in.ScheduledAt = &at
			}
			return a.report(a.dashboardView().CreateRun(cmd.Context(), in))
		},
	}
	addProjectFlag(create, &in.ProjectID)
	create.Flags().StringVar(&in.Name, "name", "", "run name")
	create.Flags().Int64Var(&plan, "plan", 0, "plan id")
	create.Flags().StringVar(&scheduled, "scheduled", "", "start time, RFC 3339")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}

func newReleasesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "releases", Aliases: []string{"release"}, Short: "Releases of a project"}

	var listProject int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List releases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			projectID, err := a.projectID(cmd.Context(), listProject)
			if err != nil {
				return err
			}
			releases, err := a.api.ListReleases(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return a.out.render(releases, func(w io.Writer) error {
				if err := writeln(w, "ID\tNAME\tVERSION\tDUE"); err != nil {
					return err
				}
				for _, r := range releases {
					if err := writef(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, orDash(r.Version), orDash(r.DueDate)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	addProjectFlag(list, &listProject)

	var in tms.NewRelease
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireTenant(); err != nil {
				return err
			}
			var err error
			if in.ProjectID, err = a.projectID(cmd.Context(), in.ProjectID); err != nil {
				return err
			}
			return a.report(a.dashboardView().CreateRelease(cmd.Context(), in))
		},
	}
	addProjectFlag(create, &in.ProjectID)
	create.Flags().StringVar(&in.Name, "name", "", "release name")
	create.Flags().StringVar(&in.Version, "version", "", "version label")
	create.Flags().StringVar(&in.DueDate, "due", "", "due date, YYYY-MM-DD")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(list, create)
	return cmd
}
