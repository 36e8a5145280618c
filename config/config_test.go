package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "RATE_LIMIT_WINDOW", "RATE_LIMIT_MAX", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
}

func TestValidate_MissingRequiredKeys(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	err := LoadConfig().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SECRET_KEY")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestValidate_WebhookSecretIsOptional(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	assert.NoError(t, LoadConfig().Validate())
}

func TestPriceForPlan(t *testing.T) {
	cfg := &Config{
		PriceStarter:      "price_starter",
		PriceProfessional: "price_pro",
		PriceEnterprise:   "price_ent",
	}

	assert.Equal(t, "price_starter", cfg.PriceForPlan("starter"))
	assert.Equal(t, "price_pro", cfg.PriceForPlan("professional"))
	assert.Equal(t, "price_ent", cfg.PriceForPlan("enterprise"))
	assert.Equal(t, "", cfg.PriceForPlan("free"))
	assert.Equal(t, "", cfg.PriceForPlan("unknown"))
}
