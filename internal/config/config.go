package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Engine     Engine     `mapstructure:"engine"`
	MarketData MarketData `mapstructure:"market_data"`
	Logger     Logger     `mapstructure:"logger"`
	Server     Server     `mapstructure:"server"`
	Database   Database   `mapstructure:"database"`
}

// Engine holds the sizing policy. These were hard-coded magic numbers in
// earlier sizing tools; here they are configuration.
type Engine struct {
	RiskMode          string  `mapstructure:"risk_mode"`
	HighExposurePct   float64 `mapstructure:"high_exposure_pct"`
	HighConvictionPct float64 `mapstructure:"high_conviction_pct"`
	DefaultBankroll   float64 `mapstructure:"default_bankroll"`
}

// MarketData holds the configuration for the prediction-market quote client.
type MarketData struct {
	BaseURL        string   `mapstructure:"base_url"`
	RateLimit      float64  `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	PollInterval   int      `mapstructure:"poll_interval"`
	Watchlist      []string `mapstructure:"watchlist"`
}

// Server holds the configuration for the HTTP API server.
type Server struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
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
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("engine.risk_mode", "quarter")
	viper.SetDefault("engine.high_exposure_pct", 50.0)
	viper.SetDefault("engine.high_conviction_pct", 70.0)
	viper.SetDefault("engine.default_bankroll", 10000.0)
	viper.SetDefault("market_data.base_url", "https://gamma-api.polymarket.com")
	viper.SetDefault("market_data.rate_limit", 10) // requests per second
	viper.SetDefault("market_data.rate_limit_burst", 5)
	viper.SetDefault("market_data.poll_interval", 30) // seconds
	viper.SetDefault("server.port", 8084)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("database.dsn", "sizer.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
