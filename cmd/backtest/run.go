package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stock-backtest-go/internal/backtest"
	"stock-backtest-go/internal/database"
	"stock-backtest-go/internal/export"
)

var (
	runStart         string
	runEnd           string
	runHoldDays      int
	runEntryOffset   int
	runStopLoss      float64
	runStopLossOnLow bool
	runCapital       float64
	runMinPrice      float64
	runResultPath    string
	runWorkbookPath  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate stored signals against price history",
	Long:  "Runs the trade simulation over all stored signals in the date range and exports the result record and workbook",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runStart, "start", "", "Signal range start YYYY-MM-DD")
	runCmd.Flags().StringVar(&runEnd, "end", "", "Signal range end YYYY-MM-DD")
	runCmd.Flags().IntVar(&runHoldDays, "hold", 0, "Holding period in trading days (default from config)")
	runCmd.Flags().IntVar(&runEntryOffset, "entry-offset", -1, "Entry offset in trading days (default from config)")
	runCmd.Flags().Float64Var(&runStopLoss, "stop-loss", -1, "Stop-loss threshold as a fraction, 0 disables (default from config)")
	runCmd.Flags().BoolVar(&runStopLossOnLow, "stop-loss-on-low", false, "Trigger the stop on the daily low instead of the close")
	runCmd.Flags().Float64Var(&runCapital, "capital", 0, "Capital per trade in JPY (default from config)")
	runCmd.Flags().Float64Var(&runMinPrice, "min-price", -1, "Minimum entry price filter (default from config)")
	runCmd.Flags().StringVar(&runResultPath, "json", "", "Result record output path (default from config)")
	runCmd.Flags().StringVar(&runWorkbookPath, "xlsx", "", "Workbook output path (default from config)")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	simCfg := backtest.Config{
		HoldDays:        cfg.Simulation.HoldDays,
		EntryOffsetDays: cfg.Simulation.EntryOffsetDays,
		StopLossPct:     cfg.Simulation.StopLossPct,
		StopLossOnLow:   cfg.Simulation.StopLossOnLow,
		CapitalPerTrade: cfg.Simulation.CapitalPerTrade,
		MinPrice:        cfg.Simulation.MinPrice,
	}
	if cmd.Flags().Changed("hold") {
		simCfg.HoldDays = runHoldDays
	}
	if cmd.Flags().Changed("entry-offset") {
		simCfg.EntryOffsetDays = runEntryOffset
	}
	if cmd.Flags().Changed("stop-loss") {
		simCfg.StopLossPct = runStopLoss
	}
	if cmd.Flags().Changed("stop-loss-on-low") {
		simCfg.StopLossOnLow = runStopLossOnLow
	}
	if cmd.Flags().Changed("capital") {
		simCfg.CapitalPerTrade = runCapital
	}
	if cmd.Flags().Changed("min-price") {
		simCfg.MinPrice = runMinPrice
	}

	if runStart != "" {
		simCfg.Start, err = time.Parse("2006-01-02", runStart)
		if err != nil {
			return fmt.Errorf("invalid start date (expected YYYY-MM-DD): %w", err)
		}
	}
	if runEnd != "" {
		simCfg.End, err = time.Parse("2006-01-02", runEnd)
		if err != nil {
			return fmt.Errorf("invalid end date (expected YYYY-MM-DD): %w", err)
		}
	}
	if err := simCfg.Validate(); err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		return err
	}
	store := database.NewStore(db)

	signals, err := store.SignalsBetween(simCfg.Start, simCfg.End)
	if err != nil {
		return err
	}
	log.Info("Loaded signals", zap.Int("count", len(signals)))

	sim := backtest.NewSimulator(log, store)
	trades, err := sim.Simulate(cmd.Context(), signals, simCfg)
	if err != nil {
		return err
	}
	summary := backtest.Summarize(trades)

	result := &backtest.Result{
		Meta: backtest.RunMeta{
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Config:      simCfg,
		},
		Summary: summary,
		Trades:  trades,
	}

	resultPath := cfg.Export.ResultPath
	if runResultPath != "" {
		resultPath = runResultPath
	}
	workbookPath := cfg.Export.WorkbookPath
	if runWorkbookPath != "" {
		workbookPath = runWorkbookPath
	}

	if err := export.WriteResult(resultPath, result); err != nil {
		return err
	}
	log.Info("Result record saved", zap.String("path", resultPath))

	names, err := store.CompanyNames()
	if err != nil {
		return err
	}
	if err := export.WriteWorkbook(workbookPath, result, names); err != nil {
		return err
	}
	log.Info("Workbook saved", zap.String("path", workbookPath))

	printSummary(summary)
	return nil
}

func printSummary(s backtest.Summary) {
	fmt.Println("=== Summary ===")
	fmt.Printf("trades:        %d\n", s.TradeCount)
	fmt.Printf("total_profit:  %.0f JPY\n", s.TotalProfitJPY)
	fmt.Printf("win_rate:      %.4f\n", s.WinRate)
	fmt.Printf("avg_ret_pct:   %.4f\n", s.AvgRetPct)
	fmt.Printf("sharpe:        %.4f\n", s.SharpeLikeRatio)
}
