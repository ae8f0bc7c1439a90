// Package config reads the service configuration from the environment,
// an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/yukikurage/pickup-line-api/internal/constants"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

type Config struct {
	Port         int
	GinMode      string
	LogLevel     string
	DatabaseURL  string
	RedisURL     string
	SecretKey    string
	AccessTTL    time.Duration
	CORSOrigins  []string
	RateLimitRPS int

	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	DefaultModel      string
	Temperature       float64
	MaxTokens         int
	LLMTimeout        time.Duration

	SeedUsername string
	SeedEmail    string
	SeedPassword string

	MigrateOnly     bool
	SeedDefaultUser bool
}

// flagKeys maps viper keys to the command-line flags that override them.
var flagKeys = map[string]string{
	"migrate_only":      "migrate-only",
	"seed_default_user": "seed-default-user",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// Load reads configuration from .env (if present), the environment and args.
func Load(args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	flags := pflag.NewFlagSet("pickup-line-api", pflag.ContinueOnError)
	flags.Bool("migrate-only", false, "Run database migrations and exit")
	flags.Bool("seed-default-user", false, "Create the default user from SEED_* variables if missing")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	v.SetDefault("port", 8080)
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "sqlite://pickup.db")
	v.SetDefault("redis_url", "")
	v.SetDefault("secret_key", "dev-secret-key")
	v.SetDefault("jwt_access_ttl", "24h")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter_api_key", "")
	v.SetDefault("default_model", "meta-llama/llama-3.2-3b-instruct:free")
	v.SetDefault("temperature", 0.8)
	v.SetDefault("max_tokens", 150)
	v.SetDefault("llm_timeout", "30s")
	v.SetDefault("seed_username", "")
	v.SetDefault("seed_email", "")
	v.SetDefault("seed_password", "")

	cfg := &Config{
		Port:              v.GetInt("port"),
		GinMode:           v.GetString("gin_mode"),
		LogLevel:          strings.ToLower(v.GetString("log_level")),
		DatabaseURL:       v.GetString("database_url"),
		RedisURL:          v.GetString("redis_url"),
		SecretKey:         v.GetString("secret_key"),
		AccessTTL:         v.GetDuration("jwt_access_ttl"),
		CORSOrigins:       splitList(v.GetString("cors_origins")),
		RateLimitRPS:      v.GetInt("rate_limit_rps"),
		OpenRouterBaseURL: strings.TrimRight(v.GetString("openrouter_base_url"), "/"),
		OpenRouterAPIKey:  v.GetString("openrouter_api_key"),
		DefaultModel:      v.GetString("default_model"),
		Temperature:       v.GetFloat64("temperature"),
		MaxTokens:         v.GetInt("max_tokens"),
		LLMTimeout:        v.GetDuration("llm_timeout"),
		SeedUsername:      v.GetString("seed_username"),
		SeedEmail:         v.GetString("seed_email"),
		SeedPassword:      v.GetString("seed_password"),
		MigrateOnly:       v.GetBool("migrate_only"),
		SeedDefaultUser:   v.GetBool("seed_default_user"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values for anything the service cannot start with.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid port provided")
	}
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL can't be empty")
	}
	if c.AccessTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	if c.LLMTimeout <= 0 {
		return errors.New("LLM_TIMEOUT must be positive")
	}
	if c.Temperature < constants.MinTemperature || c.Temperature > constants.MaxTemperature {
		return fmt.Errorf("TEMPERATURE must be between %.0f and %.0f", constants.MinTemperature, constants.MaxTemperature)
	}
	if c.MaxTokens < constants.MinMaxTokens || c.MaxTokens > constants.MaxMaxTokens {
		return fmt.Errorf("MAX_TOKENS must be between %d and %d", constants.MinMaxTokens, constants.MaxMaxTokens)
	}
	if c.DefaultModel == "" {
		return errors.New("DEFAULT_MODEL can't be empty")
	}
	if c.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS can't be negative")
	}
	if c.IsRelease() && (c.SecretKey == "" || c.SecretKey == "dev-secret-key") {
		return errors.New("SECRET_KEY must be set in release mode")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY can't be empty")
	}
	if c.SeedDefaultUser && (c.SeedUsername == "" || c.SeedEmail == "" || c.SeedPassword == "") {
		return errors.New("SEED_USERNAME, SEED_EMAIL and SEED_PASSWORD are required to seed the default user")
	}
	return nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
