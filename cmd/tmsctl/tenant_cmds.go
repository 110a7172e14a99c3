package main

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
)

type tenantRow struct {
	tenants.Tenant
	Role   string `json:"role,omitempty"`
	Active bool   `json:"active"`
}

func newTenantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tenants",
		Aliases: []string{"tenant"},
		Short:   "List, create and administer tenants",
	}
	cmd.AddCommand(
		newTenantsListCmd(a),
		newTenantsCreateCmd(a),
		newTenantsUpdateCmd(a),
		newTenantsSwitchCmd(a),
		newTenantsMembersCmd(a),
		newTenantsInviteCmd(a),
		newTenantsRemoveMemberCmd(a),
	)
	return cmd
}

func newTenantsListCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tenants you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if refresh {
				if err := a.auth.RefreshTenants(cmd.Context()); err != nil {
					return err
				}
			}
			memberships := a.auth.Memberships()
			active := a.auth.CurrentTenant()
			rows := make([]tenantRow, 0, len(memberships))
			for _, t := range a.auth.Tenants() {
				row := tenantRow{Tenant: t, Active: t.ID == active}
				if m, ok := tenants.ForTenant(memberships, t.ID); ok {
					row.Role = m.RoleKey
				}
				rows = append(rows, row)
			}
			return a.out.render(rows, func(w io.Writer) error {
				if err := writeln(w, "\tID\tNAME\tSLUG\tROLE"); err != nil {
					return err
				}
				for _, r := range rows {
					marker := ""
					if r.Active {
						marker = "*"
					}
					if err := writef(w, "%s\t%d\t%s\t%s\t%s\n", marker, r.ID, r.Name, r.Slug, orDash(r.Role)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "fetch the list instead of using the cache")
	return cmd
}

func newTenantsCreateCmd(a *app) *cobra.Command {
	var in tenants.Input
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant and switch to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			return a.report(a.dashboardView().CreateTenant(cmd.Context(), in))
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "tenant name")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "tenant slug (default: derived from the name)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newTenantsUpdateCmd(a *app) *cobra.Command {
	var in tenants.Input
	cmd := &cobra.Command{
		Use:   "update <tenant-id>",
		Short: "Rename a tenant you own or administer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			tenantID, err := parseID("tenant", args[0])
			if err != nil {
				return err
			}
			if current, ok := tenants.Find(a.auth.Tenants(), tenantID); ok {
				if in.Name == "" {
					in.Name = current.Name
				}
				if in.Slug == "" && !cmd.Flags().Changed("name") {
					in.Slug = current.Slug
				}
			}
			return a.report(a.accountView().UpdateTenant(cmd.Context(), tenantID, in))
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "new name")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "new slug")
	return cmd
}

func newTenantsSwitchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <tenant-id>",
		Short: "Make a tenant active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			tenantID, err := parseID("tenant", args[0])
			if err != nil {
				return err
			}
			return a.report(a.accountView().SwitchTenant(cmd.Context(), tenantID))
		},
	}
}

func newTenantsMembersCmd(a *app) *cobra.Command {
	var tenantID int64
	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members of a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			members, status := a.accountView().Members(cmd.Context(), tenantID)
			if err := a.report(status); err != nil {
				return err
			}
			return a.out.render(members, func(w io.Writer) error {
				if err := writeln(w, "ID\tUSER\tROLE\tSINCE"); err != nil {
					return err
				}
				for _, m := range members {
					since := "-"
					if !m.CreatedAt.IsZero() {
						since = m.CreatedAt.Format("2006-01-02")
					}
					if err := writef(w, "%d\t%d\t%s\t%s\n", m.ID, m.UserID, orDash(m.RoleKey), since); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&tenantID, "tenant", 0, "tenant id (default: the active tenant)")
	return cmd
}

func newTenantsInviteCmd(a *app) *cobra.Command {
	var (
		tenantID int64
		roleID   int64
	)
	cmd := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite someone into a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			var role *int64
			if cmd.Flags().Changed("role") {
				role = &roleID
			}
			return a.report(a.accountView().Invite(cmd.Context(), tenantID, args[0], role))
		},
	}
	cmd.Flags().Int64Var(&tenantID, "tenant", 0, "tenant id (default: the active tenant)")
	cmd.Flags().Int64Var(&roleID, "role", 0, "role id granted on acceptance")
	return cmd
}

func newTenantsRemoveMemberCmd(a *app) *cobra.Command {
	var tenantID int64
	cmd := &cobra.Command{
		Use:   "remove-member <membership-id>",
		Short: "Remove a membership from a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			membershipID, err := parseID("membership", args[0])
			if err != nil {
				return err
			}
			return a.report(a.accountView().RemoveMember(cmd.Context(), tenantID, membershipID))
		},
	}
	cmd.Flags().Int64Var(&tenantID, "tenant", 0, "tenant id (default: the active tenant)")
	return cmd
}

func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Wrapf(errors.ErrInvalidRequest, "%s id %q", name, arg)
	}
	return id, nil
}
