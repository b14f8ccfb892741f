package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"donatewall/internal/certificate"
)

var (
	certificateName   string
	certificateAmount float64
	certificateOut    string
)

// certificateCmd renders a certificate PDF to a local file.
var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Render a donation certificate PDF",
	RunE:  runCertificate,
}

func init() {
	certificateCmd.Flags().StringVar(&certificateName, "name", "", "Donor name (defaults to the preview name)")
	certificateCmd.Flags().Float64Var(&certificateAmount, "amount", 0, "Donation amount in dollars")
	certificateCmd.Flags().StringVarP(&certificateOut, "out", "o", "", "Output path (defaults to the certificate filename)")
}

func runCertificate(cmd *cobra.Command, args []string) error {
	if certificateAmount < 0 {
		return fmt.Errorf("amount must be non-negative, got %v", certificateAmount)
	}
	issuer := certificate.NewIssuer(certificate.Options{Logger: &logger})
	issued, err := issuer.Issue(cmd.Context(), certificateName, certificateAmount)
	if err != nil {
		return err
	}
	path := certificateOut
	if path == "" {
		path = issued.Certificate.Filename()
	}
	if err := os.WriteFile(path, issued.PDF, 0o644); err != nil {
		return fmt.Errorf("write certificate: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s -> %s\n",
		issued.Certificate.Number, issued.Certificate.TierLabel(), issued.Certificate.AmountLabel(), path)
	return nil
}
