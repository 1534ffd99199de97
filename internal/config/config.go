package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	Env              string        `mapstructure:"ENV"`
	DatabaseURL      string        `mapstructure:"DATABASE_URL"`
	DBMaxConns       int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns       int32         `mapstructure:"DB_MIN_CONNS"`
	JWTSigningKey    string        `mapstructure:"JWT_SIGNING_KEY"`
	JWTIssuer        string        `mapstructure:"JWT_ISSUER"`
	CORSOrigins      []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int           `mapstructure:"RATE_LIMIT_BURST"`
	ReminderInterval time.Duration `mapstructure:"REMINDER_INTERVAL"`
	ReminderLead     time.Duration `mapstructure:"REMINDER_LEAD"`
	// ReminderRecipient is the staff account that receives appointment
	// reminder notifications. Injected here instead of hardcoded in the
	// scanner so deployments can point it at any admin account.
	ReminderRecipient string `mapstructure:"REMINDER_RECIPIENT_ID"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REMINDER_INTERVAL", "60s")
	v.SetDefault("REMINDER_LEAD", "60s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("JWT_SIGNING_KEY")
	v.BindEnv("JWT_ISSUER")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REMINDER_INTERVAL")
	v.BindEnv("REMINDER_LEAD")
	v.BindEnv("REMINDER_RECIPIENT_ID")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ==========================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: DevAuthMiddleware is active — all requests get admin access.")
		log.Println("WARNING: Set ENV=production and JWT_SIGNING_KEY for production.")
		log.Println("WARNING: ==========================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development
// a JWT signing key must be set so real authentication is enforced, and the
// reminder scanner needs a positive interval and a recipient account.
func (c *Config) Validate() error {
	if !c.IsDev() && c.JWTSigningKey == "" {
		return fmt.Errorf(
			"JWT_SIGNING_KEY must be set when ENV=%q; refusing to start without authentication", c.Env)
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be positive, got %s", c.ReminderInterval)
	}
	if c.ReminderLead < 0 {
		return fmt.Errorf("REMINDER_LEAD must not be negative, got %s", c.ReminderLead)
	}
	if c.IsProduction() && c.ReminderRecipient == "" {
		return fmt.Errorf("REMINDER_RECIPIENT_ID is required in production")
	}
	return nil
}
