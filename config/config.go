package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	AppURL      string
	Environment string

	// Stripe configuration
	StripeSecretKey      string
	StripePublishableKey string
	StripeWebhookSecret  string

	// Plan price IDs (Stripe Price objects)
	PriceStarter      string
	PriceProfessional string
	PriceEnterprise   string

	// Assistant model configuration
	AssistantAPIKey  string
	AssistantBaseURL string
	AssistantModel   string

	// Redis configuration (optional, leaderboard cache)
	RedisURL string

	// PubNub configuration (optional, user notifications)
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Rate limiting
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		AppURL:      getEnv("APP_URL", "http://localhost:3000"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Stripe
		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		StripeWebhookSecret:  getEnv("STRIPE_WEBHOOK_SECRET", ""),

		// Plan prices
		PriceStarter:      getEnv("STRIPE_PRICE_STARTER", ""),
		PriceProfessional: getEnv("STRIPE_PRICE_PROFESSIONAL", ""),
		PriceEnterprise:   getEnv("STRIPE_PRICE_ENTERPRISE", ""),

		// Assistant
		AssistantAPIKey:  getEnv("OPENAI_API_KEY", ""),
		AssistantBaseURL: getEnv("OPENAI_BASE_URL", ""),
		AssistantModel:   getEnv("OPENAI_MODEL", ""),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Rate limiting
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", "15m"),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX", 100),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

// Validate reports the required keys that are missing. The webhook secret is
// the one Stripe value that may be empty: local setups without a forwarded
// webhook endpoint still need checkout to work.
func (c *Config) Validate() error {
	var missing []string
	if c.StripeSecretKey == "" {
		missing = append(missing, "STRIPE_SECRET_KEY")
	}
	if c.AssistantAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PriceForPlan maps a plan name to its configured Stripe price ID.
func (c *Config) PriceForPlan(plan string) string {
	switch plan {
	case "starter":
		return c.PriceStarter
	case "professional":
		return c.PriceProfessional
	case "enterprise":
		return c.PriceEnterprise
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
