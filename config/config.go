package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	// Server Settings
	AppPort string
	HOST    string

	// Store Settings
	StoreDriver string
	DatabaseURL string
	MongoURL    string
	DBName      string
	SeedOnStart bool

	// Cache Settings
	RedisURL string
	CacheTTL time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Admin JWT Settings
	JWTSecret string

	// Lead notifications
	AWSRegion   string
	SNSTopicARN string

	// CORS Settings
	CORSAllowOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8001")
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("DB_NAME", "phonexchange")
	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AWS_REGION", "ap-south-1")
	v.SetDefault("CORS_ORIGINS", "*")
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	// Missing .env is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("PORT"),
		HOST:        v.GetString("HOST"),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL: v.GetString("DATABASE_URL"),
		MongoURL:    v.GetString("MONGO_URL"),
		DBName:      v.GetString("DB_NAME"),
		SeedOnStart: v.GetBool("SEED_ON_START"),

		RedisURL: v.GetString("REDIS_URL"),
		CacheTTL: v.GetDuration("CACHE_TTL"),

		LogLevel:  strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat: strings.ToLower(v.GetString("LOG_FORMAT")),

		JWTSecret: v.GetString("JWT_SECRET"),

		AWSRegion:   v.GetString("AWS_REGION"),
		SNSTopicARN: v.GetString("SNS_TOPIC_ARN"),

		CORSAllowOrigins: splitOrigins(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", StorePostgres)
		}
	case StoreMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("MONGO_URL is required when STORE_DRIVER=%s", StoreMongo)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AppPort == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.RedisURL != "" && c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive when REDIS_URL is set")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.HOST + ":" + c.AppPort
}

// CORSOrigins renders the allow-list the way Fiber's cors middleware expects.
func (c *Config) CORSOrigins() string {
	return strings.Join(c.CORSAllowOrigins, ",")
}

func splitOrigins(raw string) []string {
	var out []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
