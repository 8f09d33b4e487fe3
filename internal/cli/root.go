// Package cli holds the flowctl commands for inspecting signup flow logic
// without running the HTTP service.
package cli

import "github.com/spf13/cobra"

func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "flowctl",
		Short:         "Inspect and operate the signup flow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ResolveCommand(), ClassifyCommand(), AdviseCommand(), MigrateCommand())
	return root
}
