package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"donatewall/internal/infra"
	"donatewall/internal/leaderboard"
)

var (
	leaderboardSort     string
	leaderboardURL      string
	leaderboardFallback string
	leaderboardLocale   string
	leaderboardJSON     bool
)

// leaderboardCmd loads the feed once and prints the ranked rows.
var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Fetch and print the donation leaderboard",
	Long: `Load the leaderboard from the configured source and print it.

The source is chosen like the API does: --url (or LEADERBOARD_SHEETS_URL),
then DATABASE_URL, then the fallback dataset (built-in demo donors, or the
YAML file named by LEADERBOARD_FALLBACK_FILE). Passing --fallback reads that
YAML file instead of the configured sheet or database.`,
	RunE: runLeaderboard,
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardSort, "sort", "date", "Sort key: date or amount")
	leaderboardCmd.Flags().StringVar(&leaderboardURL, "url", "", "Published sheet gviz URL (overrides LEADERBOARD_SHEETS_URL)")
	leaderboardCmd.Flags().StringVar(&leaderboardFallback, "fallback", "", "YAML file with fallback donors")
	leaderboardCmd.Flags().StringVar(&leaderboardLocale, "locale", "en", "Display locale: en or id")
	leaderboardCmd.Flags().BoolVar(&leaderboardJSON, "json", false, "Print the view as JSON")
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	key, err := leaderboard.ParseSortKey(leaderboardSort)
	if err != nil {
		return err
	}
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sourceCfg := leaderboard.SourceConfig{
		SheetsURL:    cfg.LeaderboardSheetsURL,
		HTTPClient:   &http.Client{Timeout: cfg.LeaderboardFetchTimeout},
		UseFallback:  cfg.LeaderboardUseFallback,
		FallbackFile: cfg.LeaderboardFallbackFile,
		Logger:       &logger,
	}
	// An explicit --fallback outranks the configured sheet and database;
	// only an explicit --url outranks it.
	if leaderboardFallback != "" {
		sourceCfg.SheetsURL = ""
		sourceCfg.UseFallback = true
		sourceCfg.FallbackFile = leaderboardFallback
	}
	if leaderboardURL != "" {
		sourceCfg.SheetsURL = leaderboardURL
	}
	if sourceCfg.SheetsURL == "" && leaderboardFallback == "" && cfg.DatabaseURL != "" {
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()
		sourceCfg.DB = infra.NewSQLRunner(pool, logger)
	}

	source, err := leaderboard.ResolveSource(sourceCfg)
	if err != nil {
		return err
	}
	feed := leaderboard.NewFeed(leaderboard.Options{
		Source:  source,
		Timeout: cfg.LeaderboardFetchTimeout,
		Logger:  &logger,
	})
	if err := feed.Load(ctx); err != nil {
		return fmt.Errorf("load leaderboard from %s: %w", source.Name(), err)
	}
	if err := feed.SortBy(key); err != nil {
		return err
	}
	return printView(cmd, feed.View(leaderboardLocale))
}

func printView(cmd *cobra.Command, v leaderboard.View) error {
	out := cmd.OutOrStdout()
	if leaderboardJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if len(v.Items) == 0 {
		_, err := fmt.Fprintln(out, "No donations yet.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tTIER\tDATE\tAMOUNT")
	for _, row := range v.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", row.Rank, row.Name, row.Tier, row.DateLabel, row.AmountLabel)
	}
	return tw.Flush()
}
