package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"donatewall/internal/infra"
)

var (
	verbose bool
	logger  = *infra.DiscardLogger()
)

// rootCmd is the operator CLI for the leaderboard and certificates.
var rootCmd = &cobra.Command{
	Use:           "dtn",
	Short:         "Donate to Nothing operator tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		logger = infra.NewCLILogger(verbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(tierCmd)
	rootCmd.AddCommand(certificateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
