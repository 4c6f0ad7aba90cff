// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Retail   RetailConfig
	Ollama   OllamaConfig
	CMS      CMSConfig
	Parser   ParserConfig
	Worker   WorkerConfig
	API      APIConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RedisConfig contains the Redis connection used for the task queue and the
// processed-video cache.
type RedisConfig struct {
	URL string
}

// RabbitMQConfig contains RabbitMQ connection and queue configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
	Enabled    bool
}

// RetailConfig contains the retail catalog search API credentials and
// tuning knobs.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RetailConfig struct {
	AccessKey          string
	SecretKey          string
	PartnerTag         string
	Marketplace        string
	Host               string
	Region             string
	SearchIndex        string
	MinRequestInterval time.Duration
	CacheTTL           time.Duration
}

// OllamaConfig contains the LLM content analysis configuration.
type OllamaConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// CMSConfig contains the headless CMS draft publishing configuration.
type CMSConfig struct {
	BaseURL    string
	Dataset    string
	Token      string
	APIVersion string
}

// ParserConfig contains description parsing configuration.
type ParserConfig struct {
	DefaultProductType string
	BrandCacheTTL      time.Duration
}

// WorkerConfig contains task processing configuration.
type WorkerConfig struct {
	Concurrency int
}

// APIConfig contains API authentication configuration.
type APIConfig struct {
	Key string
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "product_pipeline")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Redis
	viper.SetDefault("redis.url", "redis://localhost:6379/0")

	// RabbitMQ
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "creator.pipeline")
	viper.SetDefault("rabbitmq.queue", "creator.pipeline.drafts")
	viper.SetDefault("rabbitmq.routingkey", "draft.created")

	// Retail search
	viper.SetDefault("retail.marketplace", "www.amazon.com")
	viper.SetDefault("retail.host", "webservices.amazon.com")
	viper.SetDefault("retail.region", "us-east-1")
	viper.SetDefault("retail.searchindex", "Beauty")
	viper.SetDefault("retail.minrequestinterval", 1100*time.Millisecond)
	viper.SetDefault("retail.cachettl", 24*time.Hour)

	// Ollama
	viper.SetDefault("ollama.model", "llama3:8b")
	viper.SetDefault("ollama.timeout", 60*time.Second)

	// CMS
	viper.SetDefault("cms.dataset", "production")
	viper.SetDefault("cms.apiversion", "2024-01-01")

	// Parser
	viper.SetDefault("parser.defaultproducttype", "other")
	viper.SetDefault("parser.brandcachettl", 30*time.Minute)

	// Worker
	viper.SetDefault("worker.concurrency", 5)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
