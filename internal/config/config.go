package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"port" validate:"required"`
	Environment string `mapstructure:"environment" validate:"oneof=dev test prod"`
	TablePrefix string `mapstructure:"table_prefix"`
	CORSOrigins string `mapstructure:"cors_origins"`
	LogDir      string `mapstructure:"log_dir"`
	LogMaxFiles int    `mapstructure:"log_max_files" validate:"gte=1"`
	// Empty disables bearer verification; requests are then anonymous
	AuthJWKSURL string `mapstructure:"auth_jwks_url" validate:"omitempty,url"`
	// Debug flags
	Debug bool `mapstructure:"debug"`

	MaxUploadBytes        int64 `mapstructure:"max_upload_bytes" validate:"gt=0"`
	BlobDeleteConcurrency int   `mapstructure:"blob_delete_concurrency" validate:"gte=1"`

	Metadata MetadataConfig `mapstructure:"metadata"`
	Blob     BlobConfig     `mapstructure:"blob"`
}

// MetadataConfig selects the relational store for datarooms, folders and files
type MetadataConfig struct {
	Backend     string `mapstructure:"backend" validate:"oneof=postgres sqlite"`
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
	SQLiteDSN   string `mapstructure:"sqlite_dsn" validate:"required_if=Backend sqlite"`
}

// BlobConfig selects the byte store. Per-type options are decoded by CreateBlobStore.
type BlobConfig struct {
	Type       string         `mapstructure:"type" validate:"oneof=filesystem memory s3 minio"`
	Filesystem map[string]any `mapstructure:"filesystem"`
	S3         map[string]any `mapstructure:"s3"`
	Minio      map[string]any `mapstructure:"minio"`
}

var validate = validator.New()

// Load reads configuration from the environment and, when configPath is set,
// from a YAML/TOML/JSON file. Environment variables win over the file.
// Keys map to upper-case env vars with dots as underscores: blob.s3.bucket -> BLOB_S3_BUCKET.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	// DATABASE_URL is the conventional name; METADATA_DATABASE_URL also works
	if err := v.BindEnv("metadata.database_url", "METADATA_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("bind database url: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.TablePrefix == "" {
		cfg.TablePrefix = getTablePrefix(cfg.Environment)
	}
	if !v.IsSet("debug") {
		cfg.Debug = cfg.Environment != "prod"
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("environment", "dev")
	v.SetDefault("table_prefix", "")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("log_dir", "")
	v.SetDefault("log_max_files", 10)
	v.SetDefault("auth_jwks_url", "")
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("blob_delete_concurrency", DefaultBlobDeleteConcurrency)

	v.SetDefault("metadata.backend", "sqlite")
	v.SetDefault("metadata.sqlite_dsn", "file:dataroom.sqlite?cache=shared")

	// Every option key needs a default so AutomaticEnv can override it
	v.SetDefault("blob.type", "filesystem")
	v.SetDefault("blob.filesystem.path", "./data/blobs")
	for _, key := range []string{"region", "bucket", "key_prefix", "endpoint", "access_key_id", "secret_access_key"} {
		v.SetDefault("blob.s3."+key, "")
	}
	v.SetDefault("blob.s3.max_retries", 0)
	for _, key := range []string{"endpoint", "access_key_id", "secret_access_key", "bucket", "region", "key_prefix"} {
		v.SetDefault("blob.minio."+key, "")
	}
	v.SetDefault("blob.minio.use_ssl", false)
	v.SetDefault("blob.minio.create_bucket", false)
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}
