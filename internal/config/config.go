package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/database"
)

const envPrefix = "ADOPTION"

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Image store drivers.
const (
	ImageDriverLocal = "local"
	ImageDriverS3    = "s3"
)

// JWTConfig configures session tokens.
type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

// KafkaConfig configures event publishing and consumers. An empty broker list
// disables both.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// S3Config configures the s3 image driver.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	PathStyle bool
	Prefix    string
}

// ImageConfig selects and configures the image store.
type ImageConfig struct {
	Driver        string
	LocalDir      string
	PublicBaseURL string
	S3            S3Config
}

// ServiceConfig holds all configuration for the adoption service.
type ServiceConfig struct {
	Port        string
	AppEnv      string
	StoreDriver string
	DBConfig    database.PostgresConfig
	JWTConfig   JWTConfig
	KafkaConfig KafkaConfig
	ImageConfig ImageConfig
}

// IsDevelopment reports whether the service runs in development mode.
func (c *ServiceConfig) IsDevelopment() bool { return c.AppEnv == "development" }

// Load reads configuration from ADOPTION_* environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	expiresIn, err := time.ParseDuration(v.GetString("JWT_EXPIRES_IN"))
	if err != nil {
		return nil, fmt.Errorf("invalid %s_JWT_EXPIRES_IN: %w", envPrefix, err)
	}

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		port = ":" + port
	}

	cfg := &ServiceConfig{
		Port:        port,
		AppEnv:      v.GetString("APP_ENV"),
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		DBConfig: database.PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWTConfig: JWTConfig{
			Secret:    v.GetString("JWT_SECRET"),
			ExpiresIn: expiresIn,
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		ImageConfig: ImageConfig{
			Driver:        strings.ToLower(v.GetString("IMAGE_DRIVER")),
			LocalDir:      v.GetString("IMAGE_LOCAL_DIR"),
			PublicBaseURL: v.GetString("IMAGE_PUBLIC_BASE_URL"),
			S3: S3Config{
				Bucket:    v.GetString("S3_BUCKET"),
				Region:    v.GetString("S3_REGION"),
				Endpoint:  v.GetString("S3_ENDPOINT"),
				PathStyle: v.GetBool("S3_PATH_STYLE"),
				Prefix:    v.GetString("S3_PREFIX"),
			},
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "adoption_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES_IN", "168h")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_GROUP_PREFIX", "adoption-")
	v.SetDefault("IMAGE_DRIVER", ImageDriverLocal)
	v.SetDefault("IMAGE_LOCAL_DIR", "uploads")
	v.SetDefault("IMAGE_PUBLIC_BASE_URL", "http://localhost:8080/uploads")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_PATH_STYLE", false)
	v.SetDefault("S3_PREFIX", "pets/")
}

const devSecret = "development-secret-change-me"

func (c *ServiceConfig) validate() error {
	if c.JWTConfig.Secret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("%s_JWT_SECRET is required outside development", envPrefix)
		}
		c.JWTConfig.Secret = devSecret
	}
	if c.JWTConfig.ExpiresIn <= 0 {
		return fmt.Errorf("%s_JWT_EXPIRES_IN must be positive", envPrefix)
	}
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	switch c.ImageConfig.Driver {
	case ImageDriverLocal:
	case ImageDriverS3:
		if c.ImageConfig.S3.Bucket == "" {
			return fmt.Errorf("%s_S3_BUCKET is required for the s3 image driver", envPrefix)
		}
	default:
		return fmt.Errorf("unknown image driver %q", c.ImageConfig.Driver)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
