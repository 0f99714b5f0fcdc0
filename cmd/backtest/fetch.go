package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stock-backtest-go/internal/database"
	"stock-backtest-go/internal/jquants"
)

var (
	fetchStart string
	fetchEnd   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily quotes into the local store",
	Long:  "Refreshes the API token, downloads daily quotes for every weekday in the range and updates the listed-company master",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "Start date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "End date YYYY-MM-DD (required)")
	fetchCmd.MarkFlagRequired("start")
	fetchCmd.MarkFlagRequired("end")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	start, err := time.Parse("2006-01-02", fetchStart)
	if err != nil {
		return fmt.Errorf("invalid start date (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", fetchEnd)
	if err != nil {
		return fmt.Errorf("invalid end date (expected YYYY-MM-DD): %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must not be before start date")
	}

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return err
	}
	store := database.NewStore(db)

	client := jquants.NewClient(&cfg.JQuants, log)
	ctx := cmd.Context()
	if err := client.RefreshIDToken(ctx); err != nil {
		return err
	}

	var saved int
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		// Weekends are never trading days; holidays come back empty.
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		bars, err := client.DailyQuotes(ctx, day)
		if err != nil {
			return err
		}
		if len(bars) == 0 {
			log.Debug("No quotes", zap.Time("date", day))
			continue
		}
		if err := store.SaveBars(bars); err != nil {
			return err
		}
		saved += len(bars)
		log.Info("Saved daily quotes", zap.Time("date", day), zap.Int("rows", len(bars)))
	}

	info, err := client.ListedInfo(ctx)
	if err != nil {
		return err
	}
	if err := store.SaveListedInfo(info); err != nil {
		return err
	}

	log.Info("Fetch complete", zap.Int("bars_saved", saved), zap.Int("listed_rows", len(info)))
	return nil
}
