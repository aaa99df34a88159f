package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/mitchellh/mapstructure"

	"dataroom/internal/blob"
	blobfs "dataroom/internal/blob/fs"
	blobmemory "dataroom/internal/blob/memory"
	blobminio "dataroom/internal/blob/minio"
	blobs3 "dataroom/internal/blob/s3"
	"dataroom/internal/domain/repositories"
	docstoreRepo "dataroom/internal/domain/repositories/docstore"
	"dataroom/internal/repository/postgres"
	pgDocstore "dataroom/internal/repository/postgres/docstore"
	"dataroom/internal/repository/sqlite"
)

// decodeOptions decodes a per-backend option map. Values from the environment
// arrive as strings, so weak typing converts "true" and "10".
func decodeOptions(options map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(options)
}

// CreateBlobStore creates a blob store based on configuration.
//
// Supported types:
//   - "filesystem": files under blob.filesystem.path
//   - "memory": process-local map, lost on restart
//   - "s3": Amazon S3 or compatible storage
//   - "minio": MinIO through minio-go
func CreateBlobStore(ctx context.Context, cfg BlobConfig, logger *slog.Logger) (blob.Store, error) {
	switch cfg.Type {
	case "filesystem":
		return createFilesystemBlobStore(cfg.Filesystem, logger)
	case "memory":
		logger.Warn("memory blob store in use, content is lost on restart")
		return blobmemory.New(), nil
	case "s3":
		return createS3BlobStore(ctx, cfg.S3, logger)
	case "minio":
		return createMinioBlobStore(ctx, cfg.Minio, logger)
	default:
		return nil, fmt.Errorf("unknown blob store type: %q", cfg.Type)
	}
}

func createFilesystemBlobStore(options map[string]any, logger *slog.Logger) (blob.Store, error) {
	var storeCfg struct {
		Path string `mapstructure:"path"`
	}
	if err := decodeOptions(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode filesystem blob store config: %w", err)
	}

	store, err := blobfs.New(storeCfg.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("filesystem blob store initialized", "root", store.Root())
	return store, nil
}

func createS3BlobStore(ctx context.Context, options map[string]any, logger *slog.Logger) (blob.Store, error) {
	var storeCfg struct {
		Region          string `mapstructure:"region"`
		Bucket          string `mapstructure:"bucket"`
		KeyPrefix       string `mapstructure:"key_prefix"`
		Endpoint        string `mapstructure:"endpoint"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
		MaxRetries      int    `mapstructure:"max_retries"`
	}
	if err := decodeOptions(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode S3 blob store config: %w", err)
	}

	if storeCfg.Bucket == "" {
		return nil, fmt.Errorf("S3 blob store: bucket is required")
	}
	if storeCfg.Region == "" {
		return nil, fmt.Errorf("S3 blob store: region is required")
	}

	configOptions := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(storeCfg.Region),
	}

	// Static credentials if provided, otherwise the default credential chain
	if storeCfg.AccessKeyID != "" && storeCfg.SecretAccessKey != "" {
		configOptions = append(configOptions, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(storeCfg.AccessKeyID, storeCfg.SecretAccessKey, ""),
		))
	}

	maxRetries := storeCfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 5
	}
	configOptions = append(configOptions, awsConfig.WithRetryer(func() aws.Retryer {
		return retry.NewStandard(func(o *retry.StandardOptions) {
			o.MaxAttempts = maxRetries
		})
	}))

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, configOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// Custom endpoints (MinIO, Localstack) need path-style addressing
		if storeCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(storeCfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	store, err := blobs3.New(blobs3.Config{
		Client:    client,
		Bucket:    storeCfg.Bucket,
		KeyPrefix: storeCfg.KeyPrefix,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("S3 blob store initialized",
		"bucket", storeCfg.Bucket,
		"region", storeCfg.Region,
		"prefix", storeCfg.KeyPrefix,
	)
	return store, nil
}

func createMinioBlobStore(ctx context.Context, options map[string]any, logger *slog.Logger) (blob.Store, error) {
	var storeCfg blobminio.Config
	if err := decodeOptions(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode minio blob store config: %w", err)
	}

	store, err := blobminio.New(ctx, storeCfg)
	if err != nil {
		return nil, err
	}
	logger.Info("minio blob store initialized", "endpoint", storeCfg.Endpoint, "bucket", storeCfg.Bucket)
	return store, nil
}

// MetadataStore bundles the repositories of one relational backend
type MetadataStore struct {
	Datarooms docstoreRepo.DataroomRepository
	Folders   docstoreRepo.FolderRepository
	Files     docstoreRepo.FileRepository
	Tx        repositories.TransactionManager

	Ping    func(ctx context.Context) error
	Migrate func(ctx context.Context) error
	Drop    func(ctx context.Context) error
	Close   func()
}

// CreateMetadataStore opens the configured backend and wires its repositories
func CreateMetadataStore(ctx context.Context, cfg *Config, logger *slog.Logger) (*MetadataStore, error) {
	switch cfg.Metadata.Backend {
	case "postgres":
		pool, err := postgres.CreateConnectionPool(ctx, cfg.Metadata.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		tables := postgres.NewTableNames(cfg.TablePrefix)
		repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}

		logger.Info("postgres metadata store initialized", "table_prefix", cfg.TablePrefix)
		return &MetadataStore{
			Datarooms: pgDocstore.NewDataroomRepository(repoConfig),
			Folders:   pgDocstore.NewFolderRepository(repoConfig),
			Files:     pgDocstore.NewFileRepository(repoConfig),
			Tx:        postgres.NewTransactionManager(pool, logger),
			Ping:      pool.Ping,
			Migrate: func(ctx context.Context) error {
				return postgres.Migrate(ctx, pool, tables, logger)
			},
			Drop: func(ctx context.Context) error {
				return postgres.Drop(ctx, pool, tables, logger)
			},
			Close: pool.Close,
		}, nil

	case "sqlite":
		opts := []sqlite.ClientOption{sqlite.WithTablePrefix(cfg.TablePrefix)}
		if cfg.Environment == "dev" {
			opts = append(opts, sqlite.WithGormLogger(logger))
		}
		client, err := sqlite.NewClient(cfg.Metadata.SQLiteDSN, opts...)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		logger.Info("sqlite metadata store initialized", "dsn", cfg.Metadata.SQLiteDSN)
		return &MetadataStore{
			Datarooms: sqlite.NewDataroomRepository(client),
			Folders:   sqlite.NewFolderRepository(client),
			Files:     sqlite.NewFileRepository(client),
			Tx:        sqlite.NewTransactionManager(client),
			Ping:      client.Ping,
			Migrate:   client.Migrate,
			Drop:      client.Drop,
			Close: func() {
				if err := client.Close(); err != nil {
					logger.Warn("close sqlite", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown metadata backend: %q", cfg.Metadata.Backend)
	}
}
