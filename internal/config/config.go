package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is the signing secret used when JWT_SECRET is not set.
// Production refuses to start with it.
const DevJWTSecret = "dev-secret-change-me"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	Env        string `mapstructure:"APP_ENV"`
	ServerPort string `mapstructure:"SERVER_PORT"`

	// DatabaseURL wins over the DB_* parts when set.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	PublicBaseURL  string `mapstructure:"PUBLIC_BASE_URL"`
	UploadDir      string `mapstructure:"UPLOAD_DIR"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	ImageStorage   string `mapstructure:"IMAGE_STORAGE"`

	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`

	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	MetricsPort    string   `mapstructure:"METRICS_PORT"`
}

var defaults = map[string]any{
	"APP_ENV":          EnvDevelopment,
	"SERVER_PORT":      "8080",
	"DATABASE_URL":     "",
	"DB_HOST":          "localhost",
	"DB_PORT":          "5432",
	"DB_USER":          "itemvault",
	"DB_PASSWORD":      "itemvault_dev_password",
	"DB_NAME":          "itemvault",
	"JWT_SECRET":       DevJWTSecret,
	"PUBLIC_BASE_URL":  "http://localhost:8080",
	"UPLOAD_DIR":       "uploads",
	"MAX_UPLOAD_BYTES": int64(10 << 20),
	"IMAGE_STORAGE":    StorageLocal,
	"S3_BUCKET":        "",
	"S3_REGION":        "us-east-1",
	"S3_ENDPOINT":      "",
	"S3_ACCESS_KEY":    "",
	"S3_SECRET_KEY":    "",
	"S3_PUBLIC_URL":    "",
	"ALLOWED_ORIGINS":  []string{"*"},
	"METRICS_PORT":     "9090",
}

// Load reads defaults, then an optional config.yml, then .env, then the
// process environment, each overriding the previous.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN returns DATABASE_URL, or one assembled from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWTSecret == DevJWTSecret {
		return errors.New("JWT_SECRET must be changed from the development default in production")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}

	switch c.ImageStorage {
	case StorageLocal:
		if c.UploadDir == "" {
			return errors.New("UPLOAD_DIR is required for local image storage")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET is required for s3 image storage")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORAGE %q (want %q or %q)", c.ImageStorage, StorageLocal, StorageS3)
	}
	return nil
}

// splitOrigins also accepts a single comma separated entry.
func splitOrigins(in []string) []string {
	var out []string
	for _, entry := range in {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
