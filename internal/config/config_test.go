package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv(KeyAppEnv, EnvProduction)
	t.Setenv(KeyMongoURI, "mongodb://localhost:27017")
	t.Setenv(KeyTokenSecret, "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MongoDB != DefaultMongoDB {
		t.Errorf("MongoDB = %q, want %q", cfg.MongoDB, DefaultMongoDB)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.PaymentProvider != ProviderStub {
		t.Errorf("PaymentProvider = %q, want %q without a Stripe key", cfg.PaymentProvider, ProviderStub)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Error("CORSOrigins must have defaults")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment must be false for production")
	}
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv(KeyAppEnv, EnvProduction)
	t.Setenv(KeyMongoURI, "")
	t.Setenv(KeyTokenSecret, "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load succeeded without required variables")
	}
	for _, key := range []string{KeyMongoURI, KeyTokenSecret} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoadStripeSelectedWithKey(t *testing.T) {
	setRequired(t)
	t.Setenv(KeyStripeSecretKey, "sk_test_123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PaymentProvider != ProviderStripe {
		t.Errorf("PaymentProvider = %q, want %q", cfg.PaymentProvider, ProviderStripe)
	}
}

func TestLoadStripeRequiresKey(t *testing.T) {
	setRequired(t)
	t.Setenv(KeyPaymentProvider, ProviderStripe)
	t.Setenv(KeyStripeSecretKey, "")

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted stripe provider without a secret key")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad app env", KeyAppEnv, "staging"},
		{"bad port", KeyPort, "abc"},
		{"zero port", KeyPort, "0"},
		{"bad provider", KeyPaymentProvider, "paypal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("Load accepted %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoadCORSOriginsParsing(t *testing.T) {
	setRequired(t)
	t.Setenv(KeyCORSOrigins, " https://a.example.com , https://b.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	for i := range want {
		if cfg.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.CORSOrigins[i], want[i])
		}
	}
}
