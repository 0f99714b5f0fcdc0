package main

import (
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"stock-backtest-go/internal/config"
	"stock-backtest-go/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Setup HTTP server
	mux := http.NewServeMux()

	// Create a handler that reads the exported result record
	apiHandler := NewAPIHandler(log, cfg.Export.ResultPath)

	// API endpoints
	mux.HandleFunc("/api/summary", apiHandler.SummaryHandler)
	mux.HandleFunc("/api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("/health", apiHandler.HealthHandler)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting results server", zap.String("address", addr), zap.String("result", cfg.Export.ResultPath))

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("Results server failed", zap.Error(err))
	}
}
