package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/authctx"
	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/tenants"
	"github.com/jrsteele09/go-tms-client/token"
	"github.com/jrsteele09/go-tms-client/users"
	"github.com/jrsteele09/go-tms-client/views"
)

var version = "dev"

func newLoginCmd(a *app) *cobra.Command {
	var (
		username   string
		password   string
		tenantID   int64
		noRemember bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and pick the active tenant",
		Long: "Sign in with a username or email. Without --tenant the owner tenant is preferred, " +
			"then an admin tenant, then the first membership. The password is read from stdin when " +
			"--password is not given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.loginView()
			form := view.Load(cmd.Context())
			if username != "" {
				form.Username = username
			}
			if cmd.Flags().Changed("tenant") {
				form.TenantID = tenantID
			}
			form.Remember = !noRemember
			if password == "" {
				var err error
				if password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			form.Password = password
			return a.report(view.Submit(cmd.Context(), form))
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username or email (default: the remembered one)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	cmd.Flags().Int64Var(&tenantID, "tenant", 0, "tenant to activate")
	cmd.Flags().BoolVar(&noRemember, "no-remember", false, "forget the username and tenant after this login")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored tokens of this profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return a.report(views.Success("Signed out"))
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var req users.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				var err error
				if req.Password, err = readLine(cmd.InOrStdin()); err != nil {
					return err
				}
			}
			return a.report(a.loginView().Register(cmd.Context(), req))
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

type whoami struct {
	User       users.User `json:"user"`
	TenantID   int64      `json:"tenant_id,omitempty"`
	TenantName string     `json:"tenant_name,omitempty"`
	Role       string     `json:"role,omitempty"`
	ExpiresAt  *time.Time `json:"access_expires_at,omitempty"`
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and active tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			info := whoami{User: *a.auth.User(), TenantID: a.auth.CurrentTenant()}
			if info.TenantID != 0 {
				info.TenantName = a.auth.TenantNameByID(info.TenantID)
				if m, ok := tenants.ForTenant(a.auth.Memberships(), info.TenantID); ok {
					info.Role = m.RoleKey
				}
			}
			if claims, err := token.Inspect(a.store.Session().AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
				info.ExpiresAt = &claims.ExpiresAt
			}
			return a.out.render(info, func(w io.Writer) error {
				rows := [][2]string{
					{"User", info.User.DisplayName()},
					{"Email", orDash(info.User.Email)},
					{"Tenant", orDash(info.TenantName)},
					{"Role", orDash(info.Role)},
				}
				if info.ExpiresAt != nil {
					rows = append(rows, [2]string{"Access expires", info.ExpiresAt.Local().Format(time.RFC1123)})
				}
				for _, row := range rows {
					if err := writef(w, "%s:\t%s\n", row[0], row[1]); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

type statusInfo struct {
	State          string     `json:"state"`
	Profile        string     `json:"profile"`
	APIBase        string     `json:"api_base"`
	SessionBackend string     `json:"session_backend"`
	TenantID       int64      `json:"tenant_id,omitempty"`
	Tenants        int        `json:"tenants"`
	TenantsFetched *time.Time `json:"tenants_fetched_at,omitempty"`
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the session state of this profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := statusInfo{
				State:          a.auth.State().String(),
				Profile:        a.cfg.GetProfile(),
				APIBase:        a.api.BaseURL(),
				SessionBackend: string(a.cfg.GetSessionBackend()),
				TenantID:       a.auth.CurrentTenant(),
			}
			cache, err := a.store.TenantCache(cmd.Context())
			if err != nil && !errors.Is(err, errors.ErrNotFound) {
				a.log.Debug().Err(err).Msg("tenant cache unreadable")
			}
			info.Tenants = len(cache.Tenants)
			if !cache.FetchedAt.IsZero() {
				info.TenantsFetched = &cache.FetchedAt
			}
			return a.out.render(info, func(w io.Writer) error {
				if err := writef(w, "State:\t%s\nProfile:\t%s\nAPI:\t%s\nStorage:\t%s\n",
					info.State, info.Profile, info.APIBase, info.SessionBackend); err != nil {
					return err
				}
				if a.auth.State() == authctx.StateAuthenticated && info.TenantID != 0 {
					if err := writef(w, "Tenant:\t%s\n", a.auth.TenantNameByID(info.TenantID)); err != nil {
						return err
					}
				}
				fetched := "never"
				if info.TenantsFetched != nil {
					fetched = info.TenantsFetched.Local().Format(time.RFC1123)
				}
				return writef(w, "Tenant cache:\t%d tenants, fetched %s\n", info.Tenants, fetched)
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			banner := figure.NewFigure("tmsctl", "cybermedium", true)
			if err := writeln(cmd.OutOrStdout(), banner.String()); err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "tmsctl %s\n", version)
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
