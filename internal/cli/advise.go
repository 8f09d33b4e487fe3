package cli

import (
	"signup-service/internal/service/advisor"

	"github.com/spf13/cobra"
)

// AdviseCommand creates the advise command
func AdviseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "advise ANSWER...",
		Short: "Run the contract advisor on a set of answers",
		Long: `Score one answer (A, B or C) per advisor question and print the
recommended contract type.

Example:
  flowctl advise A B C A B`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := advisor.Recommend(args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}
