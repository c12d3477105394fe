package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// defaultBankCap is the solvency cap applied when BANK_CAP is unset, in USD
// internal accounting units.
const defaultBankCap = "1000000000"

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// BankCap is the immutable total-value ceiling in internal units.
	BankCap decimal.Decimal

	// Oracle settings
	OracleFeedURL   string
	OracleHeartbeat time.Duration

	// CustodianURL points at the external transfer settlement service.
	// Empty means the no-op custodian (development only).
	CustodianURL string

	// RateLimit in ulule/limiter format, e.g. "100-M".
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("BANK_CAP", defaultBankCap)
	viper.SetDefault("ORACLE_FEED_URL", "")
	viper.SetDefault("ORACLE_HEARTBEAT", "3600s")
	viper.SetDefault("CUSTODIAN_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	capStr := viper.GetString("BANK_CAP")
	bankCap, err := decimal.NewFromString(capStr)
	if err != nil || bankCap.IsNegative() {
		log.Printf("Warning: Invalid value for BANK_CAP ('%s'). Defaulting to %s.\n", capStr, defaultBankCap)
		bankCap = decimal.RequireFromString(defaultBankCap)
	}
	cfg.BankCap = bankCap

	cfg.OracleFeedURL = viper.GetString("ORACLE_FEED_URL")

	heartbeatStr := viper.GetString("ORACLE_HEARTBEAT")
	heartbeat, err := time.ParseDuration(heartbeatStr)
	if err != nil || heartbeat <= 0 {
		heartbeat = 3600 * time.Second
		if heartbeatStr != "" {
			log.Printf("Warning: Invalid value for ORACLE_HEARTBEAT ('%s'). Defaulting to %s.\n", heartbeatStr, heartbeat.String())
		}
	}
	cfg.OracleHeartbeat = heartbeat

	cfg.CustodianURL = viper.GetString("CUSTODIAN_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
