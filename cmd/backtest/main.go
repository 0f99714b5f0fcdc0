package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stock-backtest-go/internal/config"
	"stock-backtest-go/internal/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Signal backtesting toolkit for daily stock data",
	Long:  "Simulates trading signals against historical daily prices and manages the local price store",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./configs", "Directory containing config.yml")
}

// setup loads the configuration and builds the logger. Every subcommand
// starts here; config errors fail before anything else runs.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("could not load config: %w", err)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("could not initialize logger: %w", err)
	}

	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
