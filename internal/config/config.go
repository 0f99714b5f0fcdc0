package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Simulation Simulation `mapstructure:"simulation"`
	JQuants    JQuants    `mapstructure:"jquants"`
	Logger     Logger     `mapstructure:"logger"`
	Server     Server     `mapstructure:"server"`
	Database   Database   `mapstructure:"database"`
	Export     Export     `mapstructure:"export"`
}

// Simulation holds the default parameters for a backtest run.
// CLI flags may override individual values per run.
type Simulation struct {
	HoldDays        int     `mapstructure:"hold_days"`
	EntryOffsetDays int     `mapstructure:"entry_offset_days"`
	StopLossPct     float64 `mapstructure:"stop_loss_pct"`
	StopLossOnLow   bool    `mapstructure:"stop_loss_on_low"`
	CapitalPerTrade float64 `mapstructure:"capital_per_trade"`
	MinPrice        float64 `mapstructure:"min_price"`
}

// JQuants holds the configuration for the J-Quants API client.
type JQuants struct {
	BaseURL        string  `mapstructure:"base_url"`
	RefreshToken   string  `mapstructure:"refresh_token"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Server holds the configuration for the results UI server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Export holds the output paths for the result artifacts.
type Export struct {
	ResultPath   string `mapstructure:"result_path"`
	WorkbookPath string `mapstructure:"workbook_path"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("simulation.hold_days", 40)
	viper.SetDefault("simulation.entry_offset_days", 1)
	viper.SetDefault("simulation.capital_per_trade", 1_000_000) // JPY
	viper.SetDefault("jquants.base_url", "https://api.jquants.com/v1")
	viper.SetDefault("jquants.rate_limit", 3) // requests per second
	viper.SetDefault("jquants.rate_limit_burst", 1)
	viper.SetDefault("database.dsn", "stock.db")
	viper.SetDefault("export.result_path", "backtest_result.json")
	viper.SetDefault("export.workbook_path", "backtest_result.xlsx")
	viper.SetDefault("server.port", 8081)
	viper.SetDefault("logger.level", "info")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
