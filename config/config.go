package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Shopify   ShopifyConfig
	Vector    VectorConfig
	LLM       LLMConfig
	Sync      SyncConfig
	Retrieval RetrievalConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ShopifyConfig holds Storefront API configuration
type ShopifyConfig struct {
	StoreDomain           string `mapstructure:"store_domain"`
	StorefrontAccessToken string `mapstructure:"storefront_access_token"`
	APIVersion            string `mapstructure:"api_version"`
}

// VectorConfig holds vector index configuration
type VectorConfig struct {
	URL   string `mapstructure:"url"`
	Token string `mapstructure:"token"`
}

// LLMConfig holds language-understanding provider configuration
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// SyncConfig holds catalog ingestion configuration
type SyncConfig struct {
	Secret    string `mapstructure:"secret"`
	PageSize  int    `mapstructure:"page_size"`
	BatchSize int    `mapstructure:"batch_size"`
}

// RetrievalConfig holds staged retrieval configuration
type RetrievalConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	TopK                int     `mapstructure:"top_k"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopmind/")

	// Environment variable settings
	v.SetEnvPrefix("SHOPMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Shopify defaults. Secrets default to empty so AutomaticEnv can bind
	// them; validation rejects the empty values.
	v.SetDefault("shopify.store_domain", "")
	v.SetDefault("shopify.storefront_access_token", "")
	v.SetDefault("shopify.api_version", "2024-07")

	// Vector index defaults
	v.SetDefault("vector.url", "")
	v.SetDefault("vector.token", "")

	// LLM defaults
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", "60s")

	// Sync defaults
	v.SetDefault("sync.secret", "")
	v.SetDefault("sync.page_size", 50)
	v.SetDefault("sync.batch_size", 100)

	// Retrieval defaults
	v.SetDefault("retrieval.similarity_threshold", 0.70)
	v.SetDefault("retrieval.top_k", 1)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Shopify.StoreDomain == "" {
		return fmt.Errorf("Shopify store domain is required (set SHOPMIND_SHOPIFY_STORE_DOMAIN)")
	}
	if config.Shopify.StorefrontAccessToken == "" {
		return fmt.Errorf("Shopify Storefront access token is required (set SHOPMIND_SHOPIFY_STOREFRONT_ACCESS_TOKEN)")
	}

	if config.Vector.URL == "" || config.Vector.Token == "" {
		return fmt.Errorf("vector index URL and token are required (set SHOPMIND_VECTOR_URL, SHOPMIND_VECTOR_TOKEN)")
	}

	if config.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key is required (set SHOPMIND_LLM_API_KEY)")
	}

	if config.Sync.Secret == "" {
		return fmt.Errorf("sync secret is required (set SHOPMIND_SYNC_SECRET)")
	}

	if config.Retrieval.SimilarityThreshold <= 0 || config.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be in (0, 1], got: %v", config.Retrieval.SimilarityThreshold)
	}

	return nil
}
