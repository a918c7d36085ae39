package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultEnvironment    = "development"
	DefaultMongoDatabase  = "event-registration"
	DefaultServiceTimeout = 5 * time.Second
	DefaultRateLimitBurst = 20
	DefaultWebPort        = "3000"
	defaultAPIPort        = "8080"
)

// EmailConfig holds the confirmation email settings.
type EmailConfig struct {
	Provider              string
	FromAddress           string
	FromName              string
	AWSRegion             string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	SESInsecureSkipVerify bool
}

// Config holds all configuration for the API server
type Config struct {
	Environment    string
	Port           string
	DBUrl          string
	MongoDatabase  string
	AllowedOrigins []string
	ServiceTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	Email          EmailConfig
}

// WebConfig holds configuration for the client views server.
type WebConfig struct {
	Environment string
	Port        string
	APIURL      string
	// CSRFKey is the 32-byte form protection key, hex encoded. Empty means a key is
	// generated at startup and forms do not survive a restart.
	CSRFKey []byte
}

// Load loads the API server configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := loadEnv()

	cfg := &Config{
		Environment:    env,
		Port:           firstEnv("BACKEND_PORT", "DEV_PORT", "PORT"),
		DBUrl:          os.Getenv("DATABASE_URL"),
		MongoDatabase:  os.Getenv("MONGO_DATABASE"),
		AllowedOrigins: splitList(firstEnv("FRONTEND_URL", "DEV_URL")),
		ServiceTimeout: DefaultServiceTimeout,
		RateLimitBurst: DefaultRateLimitBurst,
		Email: EmailConfig{
			Provider:           os.Getenv("EMAIL_PROVIDER"),
			FromAddress:        os.Getenv("EMAIL_FROM_ADDRESS"),
			FromName:           os.Getenv("EMAIL_FROM_NAME"),
			AWSRegion:          os.Getenv("AWS_REGION"),
			AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = DefaultMongoDatabase
	}

	if s := os.Getenv("SERVICE_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SERVICE_TIMEOUT %q", s)
		}
		cfg.ServiceTimeout = d
	}
	if s := os.Getenv("RATE_LIMIT_RPS"); s != "" {
		rps, err := strconv.ParseFloat(s, 64)
		if err != nil || rps < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_RPS %q", s)
		}
		cfg.RateLimitRPS = rps
	}
	if s := os.Getenv("RATE_LIMIT_BURST"); s != "" {
		burst, err := strconv.Atoi(s)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_BURST %q", s)
		}
		cfg.RateLimitBurst = burst
	}
	if s := os.Getenv("SES_INSECURE_SKIP_VERIFY"); s != "" {
		skip, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid SES_INSECURE_SKIP_VERIFY %q", s)
		}
		cfg.Email.SESInsecureSkipVerify = skip
	}

	return cfg, nil
}

// Validate reports missing required settings. It runs after command-line
// overrides have been applied.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("no port configured: set BACKEND_PORT, DEV_PORT or PORT")
	}
	if c.DBUrl == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

// Addr returns the listen address for the API server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// LoadWeb loads the client views configuration.
func LoadWeb() (*WebConfig, error) {
	env := loadEnv()

	cfg := &WebConfig{
		Environment: env,
		Port:        os.Getenv("WEB_PORT"),
		APIURL:      strings.TrimRight(os.Getenv("API_URL"), "/"),
	}
	if cfg.Port == "" {
		cfg.Port = DefaultWebPort
	}
	if s := os.Getenv("CSRF_KEY"); s != "" {
		key, err := hex.DecodeString(s)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("invalid CSRF_KEY: want 64 hex characters")
		}
		cfg.CSRFKey = key
	}
	if cfg.APIURL == "" {
		apiPort := firstEnv("BACKEND_PORT", "DEV_PORT", "PORT")
		if apiPort == "" {
			apiPort = defaultAPIPort
		}
		cfg.APIURL = "http://localhost:" + apiPort + "/api"
	}
	return cfg, nil
}

// Secure reports whether cookies must be marked Secure.
func (c *WebConfig) Secure() bool {
	return c.Environment == "production"
}

// Addr returns the listen address for the client views server.
func (c *WebConfig) Addr() string {
	return ":" + c.Port
}

// loadEnv returns GO_ENV and loads .env outside production.
// A missing .env is not an error because production relies on the real environment.
func loadEnv() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = DefaultEnvironment
	}
	if env != "production" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: .env file couldn't be loaded: %v", err)
		}
	}
	return env
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
