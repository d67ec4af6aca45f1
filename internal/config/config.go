// Package config loads and validates environment configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// Canonical environment variable keys.
	KeyMongoURI        = "MONGO_URI"
	KeyMongoDB         = "MONGO_DB"
	KeyTokenSecret     = "ACCESS_TOKEN_SECRET"
	KeyStripeSecretKey = "STRIPE_SECRET_KEY"
	KeyPaymentProvider = "PAYMENT_PROVIDER"
	KeyPort            = "PORT"
	KeyAppEnv          = "APP_ENV"
	KeyLogLevel        = "LOG_LEVEL"
	KeyCORSOrigins     = "CORS_ORIGINS"

	// Allowed environment values.
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Defaults for optional settings.
	DefaultAppEnv   = EnvProduction
	DefaultLogLevel = "info"
	DefaultPort     = 5001
	DefaultMongoDB  = "contestHubDb"

	// Payment provider names.
	ProviderStripe = "stripe"
	ProviderStub   = "stub"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://assignment-12-dfc40.web.app",
	"https://contest-hub.netlify.app",
}

// Config mirrors resolved configuration values after loading.
type Config struct {
	MongoURI        string
	MongoDB         string
	TokenSecret     string
	StripeSecretKey string
	PaymentProvider string
	Port            int
	AppEnv          string
	LogLevel        string
	CORSOrigins     []string
}

// Load resolves configuration from the environment, with optional dotenv
// loading in development. MONGO_URI and ACCESS_TOKEN_SECRET are required.
func Load() (Config, error) {
	appEnv, err := resolveAppEnv()
	if err != nil {
		return Config{}, err
	}

	if err := loadDotEnv(appEnv); err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:          firstNonEmpty(normalizeEnv(os.Getenv(KeyAppEnv)), appEnv),
		MongoURI:        strings.TrimSpace(os.Getenv(KeyMongoURI)),
		MongoDB:         firstNonEmpty(strings.TrimSpace(os.Getenv(KeyMongoDB)), DefaultMongoDB),
		TokenSecret:     strings.TrimSpace(os.Getenv(KeyTokenSecret)),
		StripeSecretKey: strings.TrimSpace(os.Getenv(KeyStripeSecretKey)),
		LogLevel:        firstNonEmpty(strings.TrimSpace(os.Getenv(KeyLogLevel)), DefaultLogLevel),
		Port:            DefaultPort,
		CORSOrigins:     defaultCORSOrigins,
	}

	if err := validateAppEnv(cfg.AppEnv); err != nil {
		return Config{}, err
	}

	missing := make([]string, 0)
	if cfg.MongoURI == "" {
		missing = append(missing, KeyMongoURI)
	}
	if cfg.TokenSecret == "" {
		missing = append(missing, KeyTokenSecret)
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	if raw := strings.TrimSpace(os.Getenv(KeyPort)); raw != "" {
		port, parseErr := strconv.Atoi(raw)
		if parseErr != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", KeyPort, parseErr)
		}
		if port <= 0 {
			return Config{}, fmt.Errorf("%s must be greater than 0", KeyPort)
		}
		cfg.Port = port
	}

	if raw := strings.TrimSpace(os.Getenv(KeyCORSOrigins)); raw != "" {
		origins := make([]string, 0)
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		if len(origins) > 0 {
			cfg.CORSOrigins = origins
		}
	}

	cfg.PaymentProvider = normalizeEnv(os.Getenv(KeyPaymentProvider))
	if cfg.PaymentProvider == "" {
		if cfg.StripeSecretKey != "" {
			cfg.PaymentProvider = ProviderStripe
		} else {
			cfg.PaymentProvider = ProviderStub
		}
	}
	if cfg.PaymentProvider != ProviderStripe && cfg.PaymentProvider != ProviderStub {
		return Config{}, fmt.Errorf("invalid %s: must be %q or %q", KeyPaymentProvider, ProviderStripe, ProviderStub)
	}
	if cfg.PaymentProvider == ProviderStripe && cfg.StripeSecretKey == "" {
		return Config{}, fmt.Errorf("%s is required when %s=%s", KeyStripeSecretKey, KeyPaymentProvider, ProviderStripe)
	}

	return cfg, nil
}

// IsDevelopment reports if APP_ENV is development.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func resolveAppEnv() (string, error) {
	if explicit := normalizeEnv(os.Getenv(KeyAppEnv)); explicit != "" {
		return explicit, nil
	}

	dotEnvValues, err := godotenv.Read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultAppEnv, nil
		}
		return "", fmt.Errorf("read .env: %w", err)
	}

	if envFromFile := normalizeEnv(dotEnvValues[KeyAppEnv]); envFromFile != "" {
		return envFromFile, nil
	}

	return DefaultAppEnv, nil
}

func loadDotEnv(appEnv string) error {
	if appEnv != EnvDevelopment {
		return nil
	}

	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func validateAppEnv(appEnv string) error {
	if appEnv == EnvDevelopment || appEnv == EnvProduction {
		return nil
	}

	return fmt.Errorf("invalid %s: must be %q or %q", KeyAppEnv, EnvDevelopment, EnvProduction)
}

func normalizeEnv(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func firstNonEmpty(values ...string) string {
	for _, val := range values {
		if strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}
