package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"donatewall/internal/domain"
)

var (
	tierShow      bool
	tierAnonymous bool
)

// tierCmd evaluates the donation form for an amount.
var tierCmd = &cobra.Command{
	Use:   "tier <amount>",
	Short: "Show the tier and form rules for a donation amount",
	Args:  cobra.ExactArgs(1),
	RunE:  runTier,
}

func init() {
	tierCmd.Flags().BoolVar(&tierShow, "show", false, "Donor opts onto the leaderboard")
	tierCmd.Flags().BoolVar(&tierAnonymous, "anonymous", false, "Donor asks to be shown as Anonymous")
}

func runTier(cmd *cobra.Command, args []string) error {
	q := domain.NewQuote(domain.ParseWholeAmount(args[0]), tierShow, tierAnonymous)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, q.Label)
	fmt.Fprintf(out, "shipping address required: %t\n", q.ShippingRequired)
	if q.OfferAnonymous {
		fmt.Fprintf(out, "shown as anonymous: %t\n", q.Anonymous)
	}
	return nil
}
