package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every runtime setting of the storefront API.
type Config struct {
	Env      string
	Port     string
	Storage  string // "mongo" or "memory"
	LogLevel string

	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64
	MongoMaxIdleTime time.Duration
	MongoOpTimeout   time.Duration

	JWTSecret string
	JWTExpiry time.Duration

	// Asset host
	AssetCloudName    string
	CloudinaryPreset  string
	CloudinaryAPIURL  string
	CloudinaryTimeout time.Duration

	// Courier
	LeopardsAPIURL   string
	LeopardsKey      string
	LeopardsPassword string
	LeopardsLookback time.Duration
	LeopardsTimeout  time.Duration

	RabbitMQURL   string
	KafkaBrokers  []string
	KafkaLogTopic string

	OTLPEndpoint string
	SentryDSN    string
	CORSOrigins  string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("STORAGE_DRIVER", "mongo")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "storefront")
	v.SetDefault("MONGO_MAX_POOL_SIZE", 50)
	v.SetDefault("MONGO_MIN_POOL_SIZE", 5)
	v.SetDefault("MONGO_MAX_CONN_IDLE_TIME", "5m")
	v.SetDefault("MONGO_OP_TIMEOUT", "5s")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRY", "24h")

	v.SetDefault("ASSET_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_UPLOAD_PRESET", "")
	v.SetDefault("CLOUDINARY_API_URL", "https://api.cloudinary.com/v1_1")
	v.SetDefault("CLOUDINARY_TIMEOUT", "30s")

	v.SetDefault("LEOPARDS_API_URL", "https://merchantapi.leopardscourier.com/api")
	v.SetDefault("LEOPARDS_API_KEY", "")
	v.SetDefault("LEOPARDS_API_PASSWORD", "")
	v.SetDefault("LEOPARDS_LOOKBACK", "720h")
	v.SetDefault("LEOPARDS_TIMEOUT", "10s")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_LOG_TOPIC", "storefront-logs")

	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("CORS_ORIGINS", "*")
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win over the file.
func Load() (*Config, error) {
	return LoadWith(viper.New())
}

// LoadWith is Load over a caller-supplied viper instance.
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		Port:     v.GetString("APP_PORT"),
		Storage:  strings.ToLower(v.GetString("STORAGE_DRIVER")),
		LogLevel: v.GetString("LOG_LEVEL"),

		MongoURI:         v.GetString("MONGO_URI"),
		MongoDatabase:    v.GetString("MONGO_DATABASE"),
		MongoMaxPoolSize: v.GetUint64("MONGO_MAX_POOL_SIZE"),
		MongoMinPoolSize: v.GetUint64("MONGO_MIN_POOL_SIZE"),
		MongoMaxIdleTime: v.GetDuration("MONGO_MAX_CONN_IDLE_TIME"),
		MongoOpTimeout:   v.GetDuration("MONGO_OP_TIMEOUT"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTExpiry: v.GetDuration("JWT_EXPIRY"),

		AssetCloudName:    v.GetString("ASSET_CLOUD_NAME"),
		CloudinaryPreset:  v.GetString("CLOUDINARY_UPLOAD_PRESET"),
		CloudinaryAPIURL:  v.GetString("CLOUDINARY_API_URL"),
		CloudinaryTimeout: v.GetDuration("CLOUDINARY_TIMEOUT"),

		LeopardsAPIURL:   v.GetString("LEOPARDS_API_URL"),
		LeopardsKey:      v.GetString("LEOPARDS_API_KEY"),
		LeopardsPassword: v.GetString("LEOPARDS_API_PASSWORD"),
		LeopardsLookback: v.GetDuration("LEOPARDS_LOOKBACK"),
		LeopardsTimeout:  v.GetDuration("LEOPARDS_TIMEOUT"),

		RabbitMQURL:   v.GetString("RABBITMQ_URL"),
		KafkaBrokers:  parseCSV(v.GetString("KAFKA_BROKERS")),
		KafkaLogTopic: v.GetString("KAFKA_LOG_TOPIC"),

		OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SentryDSN:    v.GetString("SENTRY_DSN"),
		CORSOrigins:  v.GetString("CORS_ORIGINS"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether cookies must carry the Secure flag.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.Storage != "mongo" && c.Storage != "memory" {
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev_jwt_secret"
	}
	if c.JWTExpiry <= 0 {
		c.JWTExpiry = 24 * time.Hour
	}
	if c.MongoOpTimeout <= 0 {
		c.MongoOpTimeout = 5 * time.Second
	}
	return nil
}

// AssetHostPrefix is the URL prefix every product image must start with.
func (c *Config) AssetHostPrefix() string {
	if c.AssetCloudName == "" {
		return ""
	}
	return "https://res.cloudinary.com/" + c.AssetCloudName + "/"
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
