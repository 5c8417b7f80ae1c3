// Package config loads runtime settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/simaogato/assetboard-backend/internal/domain"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"

	defaultAPIToken = "dev-token"
)

// Config holds all settings of the server process
type Config struct {
	// Transport
	GRPCAddr    string
	HTTPAddr    string
	APIToken    string
	CORSOrigins []string

	// Storage
	DataBackend string
	DBConnStr   string

	// Aggregation
	ReportingCurrency domain.Currency
	RateCacheTTL      time.Duration
	SeedDefaultRates  bool

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env (if any) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		GRPCAddr:    get("GRPC_ADDR", ":8080"),
		HTTPAddr:    get("HTTP_ADDR", ":8081"),
		APIToken:    get("API_TOKEN", defaultAPIToken),
		CORSOrigins: splitList(get("CORS_ORIGINS", "*")),
		DataBackend: strings.ToLower(get("DATA_BACKEND", BackendMemory)),
		LogLevel:    get("LOG_LEVEL", "info"),
		LogFormat:   strings.ToLower(get("LOG_FORMAT", "text")),
	}

	cfg.DBConnStr = getenv("DB_CONN_STR")
	if cfg.DBConnStr == "" {
		// If explicit string is missing, build it from individual vars (Docker friendly)
		cfg.DBConnStr = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			get("DB_HOST", "localhost"),
			get("DB_PORT", "5432"),
			get("DB_USER", "postgres"),
			get("DB_PASSWORD", "postgres"),
			get("DB_NAME", "assetboard"),
		)
	}

	var problems []string

	currency, err := domain.ParseCurrency(get("REPORTING_CURRENCY", string(domain.CurrencyCNY)))
	if err != nil {
		problems = append(problems, err.Error())
	}
	cfg.ReportingCurrency = currency

	ttl, err := time.ParseDuration(get("RATE_CACHE_TTL", "1h"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid RATE_CACHE_TTL: %v", err))
	}
	cfg.RateCacheTTL = ttl

	seedRates, err := strconv.ParseBool(get("SEED_DEFAULT_RATES", "true"))
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid SEED_DEFAULT_RATES: %v", err))
	}
	cfg.SeedDefaultRates = seedRates

	if err := cfg.validate(); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return nil, errors.New("configuration errors: " + strings.Join(problems, "; "))
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string

	switch c.DataBackend {
	case BackendMemory, BackendPostgres:
	default:
		problems = append(problems, fmt.Sprintf("invalid DATA_BACKEND %q: must be %s or %s", c.DataBackend, BackendMemory, BackendPostgres))
	}
	if c.GRPCAddr == c.HTTPAddr {
		problems = append(problems, "GRPC_ADDR and HTTP_ADDR must differ")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("invalid LOG_FORMAT %q: must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// UsesDefaultToken reports whether the development API token is in effect
func (c *Config) UsesDefaultToken() bool {
	return c.APIToken == defaultAPIToken
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
