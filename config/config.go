package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Public site base URL, used to build redirect URLs.
	SiteBaseURL string `mapstructure:"SITE_BASE_URL"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int    `mapstructure:"REDIS_SESSION_DB"`
	RedisWebhookDB int    `mapstructure:"REDIS_WEBHOOK_DB"`

	// Stripe configuration.
	StripeKey                string `mapstructure:"STRIPE_SECRET_KEY"`
	StripePriceSidekick      string `mapstructure:"STRIPE_PRICE_SIDEKICK"`
	StripePriceHero          string `mapstructure:"STRIPE_PRICE_HERO"`
	StripePriceSuperScooper  string `mapstructure:"STRIPE_PRICE_SUPER_SCOOOPER"`
	StripePriceExtraDog      string `mapstructure:"STRIPE_PRICE_EXTRA_DOG"`
	StripePriceDeodorizer1x  string `mapstructure:"STRIPE_PRICE_DEODORIZER_1X"`
	StripePriceDeodorizer2x  string `mapstructure:"STRIPE_PRICE_DEODORIZER_2X"`
	StripePriceDeodorizer3x  string `mapstructure:"STRIPE_PRICE_DEODORIZER_3X"`
	StripeFirstCleanupCoupon string `mapstructure:"STRIPE_FIRST_CLEANUP_COUPON"`

	// Sweep&Go CRM configuration.
	SweepAndGoAPIKey        string `mapstructure:"SWEEP_AND_GO_API_KEY"`
	SweepAndGoOrgSlug       string `mapstructure:"SWEEP_AND_GO_ORG_SLUG"`
	SweepAndGoBaseURL       string `mapstructure:"SWEEP_AND_GO_BASE_URL"`
	SweepAndGoWebhookSecret string `mapstructure:"SWEEP_AND_GO_WEBHOOK_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("SITE_BASE_URL", "https://superscooops.com")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("REDIS_WEBHOOK_DB", 1)
	viper.SetDefault("SWEEP_AND_GO_ORG_SLUG", "super-scooops-qhnjn")
	viper.SetDefault("SWEEP_AND_GO_BASE_URL", "https://openapi.sweepandgo.com")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// StripePriceID resolves the configured Stripe price for a plan or add-on id.
// An empty return value means the price is not configured.
func StripePriceID(id string) string {
	switch id {
	case "sidekick":
		return AppConfig.StripePriceSidekick
	case "hero":
		return AppConfig.StripePriceHero
	case "super-scooper":
		return AppConfig.StripePriceSuperScooper
	case "extra-dog":
		return AppConfig.StripePriceExtraDog
	case "deodorizer-1x":
		return AppConfig.StripePriceDeodorizer1x
	case "deodorizer-2x":
		return AppConfig.StripePriceDeodorizer2x
	case "deodorizer-3x":
		return AppConfig.StripePriceDeodorizer3x
	default:
		return ""
	}
}
