package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/views"
)

func newDashboardCmd(a *app) *cobra.Command {
	var projectID int64
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summarise the active tenant and one of its projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			view := a.dashboardView()
			status := view.Refresh(cmd.Context())
			if projectID != 0 && !status.IsError() {
				status = view.SelectProject(cmd.Context(), projectID)
			}
			data := view.Data()
			if err := a.out.render(data, func(w io.Writer) error { return dashboardTable(w, data) }); err != nil {
				return err
			}
			return a.sectionErrors(data.Status)
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project to show (default: the first)")
	return cmd
}

func dashboardTable(w io.Writer, d views.DashboardData) error {
	tenant := d.TenantName
	if d.TenantID == 0 {
		tenant = "(none)"
	}
	if err := writef(w, "Tenant:\t%s\n\n", tenant); err != nil {
		return err
	}
	if err := writeln(w, "\tPROJECT\tKEY\tNAME"); err != nil {
		return err
	}
	for _, p := range d.Projects {
		marker := ""
		if p.ID == d.SelectedProject {
			marker = "*"
		}
		if err := writef(w, "%s\t%d\t%s\t%s\n", marker, p.ID, p.Key, p.Name); err != nil {
			return err
		}
	}
	if d.SelectedProject == 0 {
		return nil
	}
	counts := []struct {
		section views.Section
		n       int
	}{
		{views.SectionSections, len(d.Sections)},
		{views.SectionTestCases, len(d.TestCases)},
		{views.SectionPlans, len(d.Plans)},
		{views.SectionRuns, len(d.Runs)},
		{views.SectionReleases, len(d.Releases)},
	}
	if err := writeln(w, ""); err != nil {
		return err
	}
	for _, c := range counts {
		value := fmt.Sprint(c.n)
		if s, ok := d.Status[c.section]; ok && s.IsError() {
			value = "unavailable"
		}
		if err := writef(w, "%s:\t%s\n", c.section, value); err != nil {
			return err
		}
	}
	return nil
}

// sectionErrors prints every section banner to stderr and fails when any is an error.
func (a *app) sectionErrors(statuses map[views.Section]views.Status) error {
	sections := make([]string, 0, len(statuses))
	for s := range statuses {
		sections = append(sections, string(s))
	}
	sort.Strings(sections)

	var failed int
	for _, s := range sections {
		status := statuses[views.Section(s)]
		fmt.Fprintf(a.errOut, "%s: %s\n", s, status)
		if status.IsError() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d dashboard section(s) failed to load", failed)
	}
	return nil
}
