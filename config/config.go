package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"momo-gateway/internal/domain"

	"go.uber.org/zap"
)

type Config struct {
	Server ServerConfig
	Momo   MomoConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// MomoConfig holds the MoMo API credentials. Immutable after Load.
//
// The collection and disbursement products can be provisioned under separate
// subscription keys; when no disbursement key is configured the collection key
// is used for both, which is how sandbox deployments are typically set up.
type MomoConfig struct {
	APIUserID         string
	APIKey            string
	CollectionKey     string
	DisbursementKey   string
	BaseURL           string
	TargetEnvironment string
	HTTPTimeout       time.Duration
}

// SubscriptionKey returns the Ocp-Apim-Subscription-Key for a product.
func (c MomoConfig) SubscriptionKey(product domain.Product) string {
	if product == domain.ProductDisbursement && c.DisbursementKey != "" {
		return c.DisbursementKey
	}
	return c.CollectionKey
}

// Load reads configuration from the environment. Any missing required MoMo
// setting fails with a ConfigError naming it; a Config is never returned
// partially filled.
func Load(logger *zap.Logger) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("ENVIRONMENT", "development"),
		},
		Momo: MomoConfig{
			APIUserID:         os.Getenv("MOMO_API_USER_ID"),
			APIKey:            os.Getenv("MOMO_API_KEY"),
			CollectionKey:     os.Getenv("MOMO_COLLECTION_SUBSCRIPTION_KEY"),
			DisbursementKey:   os.Getenv("MOMO_DISBURSEMENT_SUBSCRIPTION_KEY"),
			BaseURL:           strings.TrimRight(os.Getenv("MOMO_BASE_URL"), "/"),
			TargetEnvironment: os.Getenv("MOMO_TARGET_ENVIRONMENT"),
			HTTPTimeout:       time.Duration(getEnvInt("MOMO_HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	required := []struct {
		name  string
		value string
	}{
		{"MOMO_API_USER_ID", cfg.Momo.APIUserID},
		{"MOMO_API_KEY", cfg.Momo.APIKey},
		{"MOMO_COLLECTION_SUBSCRIPTION_KEY", cfg.Momo.CollectionKey},
		{"MOMO_BASE_URL", cfg.Momo.BaseURL},
		{"MOMO_TARGET_ENVIRONMENT", cfg.Momo.TargetEnvironment},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, &domain.ConfigError{Field: f.name}
		}
	}

	switch cfg.Momo.TargetEnvironment {
	case "sandbox", "production":
	default:
		return nil, &domain.ConfigError{
			Field:  "MOMO_TARGET_ENVIRONMENT",
			Reason: "must be sandbox or production",
		}
	}

	logger.Info("momo configuration loaded",
		zap.String("base_url", cfg.Momo.BaseURL),
		zap.String("target_environment", cfg.Momo.TargetEnvironment),
		zap.Bool("disbursement_key_configured", cfg.Momo.DisbursementKey != ""),
		zap.Duration("http_timeout", cfg.Momo.HTTPTimeout))

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
