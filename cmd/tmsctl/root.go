package main

import (
	"github.com/spf13/cobra"
)

const skipSetup = "skip-setup"

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "tmsctl",
		Short:         "Command-line client for the multi-tenant test-management backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if _, ok := cmd.Annotations[skipSetup]; ok || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&a.flags.output, "output", "o", string(formatTable), "output format: table, json or yaml")
	flags.StringVar(&a.flags.query, "query", "", "JMESPath expression applied to the output")
	flags.StringVar(&a.flags.profile, "profile", "", "session profile (default $TMS_PROFILE or \"default\")")
	flags.BoolVar(&a.flags.debug, "debug", false, "log requests and debug detail to stderr")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newStatusCmd(a),
		newVersionCmd(),
		newTenantsCmd(a),
		newProjectsCmd(a),
		newSectionsCmd(a),
		newCasesCmd(a),
		newPlansCmd(a),
		newRunsCmd(a),
		newReleasesCmd(a),
		newDashboardCmd(a),
		newPrefsCmd(a),
	)
	return root
}
