package config_test

import (
	"testing"
	"time"

	"momo-gateway/config"
	"momo-gateway/internal/domain"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setMomoEnv(t *testing.T) {
	t.Setenv("MOMO_API_USER_ID", "user-1")
	t.Setenv("MOMO_API_KEY", "key-1")
	t.Setenv("MOMO_COLLECTION_SUBSCRIPTION_KEY", "coll-key")
	t.Setenv("MOMO_DISBURSEMENT_SUBSCRIPTION_KEY", "")
	t.Setenv("MOMO_BASE_URL", "https://sandbox.momodeveloper.mtn.com/")
	t.Setenv("MOMO_TARGET_ENVIRONMENT", "sandbox")
}

func TestLoad(t *testing.T) {
	setMomoEnv(t)

	cfg, err := config.Load(zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, "user-1", cfg.Momo.APIUserID)
	require.Equal(t, "key-1", cfg.Momo.APIKey)
	require.Equal(t, "coll-key", cfg.Momo.CollectionKey)
	// trailing slash is trimmed so URL building never doubles it
	require.Equal(t, "https://sandbox.momodeveloper.mtn.com", cfg.Momo.BaseURL)
	require.Equal(t, "sandbox", cfg.Momo.TargetEnvironment)
	require.Equal(t, 30*time.Second, cfg.Momo.HTTPTimeout)
	require.Equal(t, "8080", cfg.Server.Port)
}

func TestLoad_MissingRequiredField(t *testing.T) {
	required := []string{
		"MOMO_API_USER_ID",
		"MOMO_API_KEY",
		"MOMO_COLLECTION_SUBSCRIPTION_KEY",
		"MOMO_BASE_URL",
		"MOMO_TARGET_ENVIRONMENT",
	}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			setMomoEnv(t)
			t.Setenv(name, "")

			cfg, err := config.Load(zap.NewNop())
			require.Nil(t, cfg, "no partial config on failure")

			var configErr *domain.ConfigError
			require.ErrorAs(t, err, &configErr)
			require.Equal(t, name, configErr.Field)
		})
	}
}

func TestLoad_InvalidTargetEnvironment(t *testing.T) {
	setMomoEnv(t)
	t.Setenv("MOMO_TARGET_ENVIRONMENT", "staging")

	cfg, err := config.Load(zap.NewNop())
	require.Nil(t, cfg)

	var configErr *domain.ConfigError
	require.ErrorAs(t, err, &configErr)
	require.Equal(t, "MOMO_TARGET_ENVIRONMENT", configErr.Field)
}

func TestSubscriptionKey(t *testing.T) {
	cfg := config.MomoConfig{CollectionKey: "coll-key"}
	require.Equal(t, "coll-key", cfg.SubscriptionKey(domain.ProductCollection))
	// without a dedicated disbursement key, the collection key serves both
	require.Equal(t, "coll-key", cfg.SubscriptionKey(domain.ProductDisbursement))

	cfg.DisbursementKey = "disb-key"
	require.Equal(t, "coll-key", cfg.SubscriptionKey(domain.ProductCollection))
	require.Equal(t, "disb-key", cfg.SubscriptionKey(domain.ProductDisbursement))
}
