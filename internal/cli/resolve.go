package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"signup-service/internal/domain/signup"
	"signup-service/internal/service/navigation"

	"github.com/spf13/cobra"
)

// ResolveCommand creates the resolve command
func ResolveCommand() *cobra.Command {
	var (
		flow      string
		step      string
		statePath string
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a requested step against a saved case state",
		Long: `Run the navigation guards for a step parameter and print where the
customer would end up.

Examples:
  flowctl resolve --flow private --step IDENTIFY --state case.json
  cat case.json | flowctl resolve --flow company --step FACILITIES_LOOP --state -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ct := signup.CustomerType(strings.ToUpper(flow))
			state, err := readState(cmd.InOrStdin(), statePath, ct)
			if err != nil {
				return err
			}
			switch ct {
			case signup.CustomerTypePrivate:
				return printJSON(cmd.OutOrStdout(), navigation.ResolvePrivate(step, state))
			case signup.CustomerTypeCompany:
				return printJSON(cmd.OutOrStdout(), navigation.ResolveCompany(step, state))
			}
			return fmt.Errorf("unknown flow %q (want private or company)", flow)
		},
	}

	cmd.Flags().StringVar(&flow, "flow", "private", "Flow to resolve (private, company)")
	cmd.Flags().StringVar(&step, "step", "", "Requested step parameter")
	cmd.Flags().StringVar(&statePath, "state", "", "Case state JSON file, - for stdin, empty for a fresh case")

	return cmd
}

func readState(stdin io.Reader, path string, ct signup.CustomerType) (signup.CaseState, error) {
	var state signup.CaseState
	var (
		raw []byte
		err error
	)
	switch path {
	case "":
		return signup.InitialState(ct), nil
	case "-":
		raw, err = io.ReadAll(stdin)
	default:
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return state, fmt.Errorf("read state: %w", err)
	}
	if err := json.Unmarshal(raw, &state); err != nil {
		return state, fmt.Errorf("parse state: %w", err)
	}
	return state, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
