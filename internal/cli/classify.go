package cli

import (
	"context"
	"time"

	"signup-service/internal/domain/signup"
	"signup-service/internal/service/scenario"

	"github.com/spf13/cobra"
)

// ClassifyCommand creates the classify command
func ClassifyCommand() *cobra.Command {
	var (
		req         scenario.Request
		addressType string
		region      string
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Ask the mock scenario service how a person at an address is classified",
		Long: `Classify a national ID and address with the deterministic mock used by
the service when no CRM is configured.

Examples:
  flowctl classify --pnr 199001011234 --street Storgatan --number 1 --postal 11122 --city Stockholm
  flowctl classify --pnr 199001011234 --street Storgatan --number 1 --postal 11122 --city Stockholm --scenario MOVE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Address.Type = signup.AddressType(addressType)
			req.Address.Elomrade = signup.Elomrade(region)
			resp, err := scenario.NewMock(0, time.Now).Determine(context.Background(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&req.NationalID, "pnr", "", "Personal identity number (10 or 12 digits)")
	cmd.Flags().StringVar(&req.Address.Street, "street", "", "Street name")
	cmd.Flags().StringVar(&req.Address.Number, "number", "", "Street number")
	cmd.Flags().StringVar(&req.Address.PostalCode, "postal", "", "Postal code")
	cmd.Flags().StringVar(&req.Address.City, "city", "", "City")
	cmd.Flags().StringVar(&addressType, "type", string(signup.AddressTypeVilla), "Address type (LGH, VILLA)")
	cmd.Flags().StringVar(&region, "region", string(signup.SE3), "Price area of the address")
	cmd.Flags().StringVar(&req.ScenarioOverride, "scenario", "", "Scenario override, as set from the developer panel")
	cmd.Flags().StringVar(&req.ConsentOverride, "consent", "", "Marketing consent override")
	cmd.Flags().StringSliceVar(&req.ExtrasOverride, "extras", nil, "Extras eligibility override")
	_ = cmd.MarkFlagRequired("pnr")

	return cmd
}
