package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/utils"
	"github.com/jrsteele09/go-tms-client/sessions"
)

type prefsDocument struct {
	Login   sessions.LoginPrefs   `json:"login"`
	Profile sessions.ProfilePrefs `json:"profile"`
}

func newPrefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "prefs", Short: "Login and profile preferences of this profile"}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the stored preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			login, err := a.store.LoginPrefs(cmd.Context())
			if err != nil {
				return err
			}
			doc := prefsDocument{Login: login, Profile: a.accountView().Profile(cmd.Context())}
			return a.out.render(doc, func(w io.Writer) error {
				return writef(w, "Remember login:\t%t\nEmail:\t%s\nLogin tenant:\t%s\nDisplay name:\t%s\nTheme:\t%s\nPreferred tenant:\t%s\n",
					doc.Login.Remember, orDash(doc.Login.Email), idOrDash(doc.Login.TenantID),
					orDash(doc.Profile.DisplayName), doc.Profile.Theme, idOrDash(doc.Profile.PreferredTenant))
			})
		},
	}

	var (
		displayName     string
		theme           string
		preferredTenant int64
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change profile preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			view := a.accountView()
			prefs := view.Profile(cmd.Context())
			changed := false
			if cmd.Flags().Changed("display-name") {
				prefs.DisplayName, changed = displayName, true
			}
			if cmd.Flags().Changed("theme") {
				prefs.Theme, changed = theme, true
			}
			if cmd.Flags().Changed("preferred-tenant") {
				prefs.PreferredTenant, changed = utils.NonZeroPtr(preferredTenant), true
			}
			if !changed {
				return errors.Wrapf(errors.ErrInvalidRequest, "nothing to set")
			}
			return a.report(view.SaveProfile(cmd.Context(), prefs))
		},
	}
	set.Flags().StringVar(&displayName, "display-name", "", "name shown in the account page")
	set.Flags().StringVar(&theme, "theme", "", "system, light or dark")
	set.Flags().Int64Var(&preferredTenant, "preferred-tenant", 0, "tenant to prefer (0 clears)")

	cmd.AddCommand(show, set)
	return cmd
}
