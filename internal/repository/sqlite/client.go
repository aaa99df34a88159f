package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DSNMemory is a shared in-memory database, handy for local runs
const DSNMemory = "file::memory:?cache=shared"

// Client wraps the gorm connection used by the sqlite repositories
type Client struct {
	db *gorm.DB
}

type clientOptions struct {
	gormLogger  logger.Interface
	tablePrefix string
}

// ClientOption configures NewClient
type ClientOption func(*clientOptions)

// WithNopLogger silences gorm
func WithNopLogger() ClientOption {
	return func(c *clientOptions) {
		c.gormLogger = logger.Discard
	}
}

// WithGormLogger routes gorm logs through slog
func WithGormLogger(l *slog.Logger) ClientOption {
	return func(c *clientOptions) {
		c.gormLogger = slogGorm.New(
			slogGorm.WithHandler(l.Handler()),
			slogGorm.WithTraceAll(),
		)
	}
}

// WithTablePrefix prefixes every table name (dev_, test_, prod_)
func WithTablePrefix(prefix string) ClientOption {
	return func(c *clientOptions) {
		c.tablePrefix = prefix
	}
}

// NewClient opens a sqlite database and enables foreign keys.
// A single connection is kept open so in-memory databases and pragmas survive.
func NewClient(dsn string, options ...ClientOption) (*Client, error) {
	opts := clientOptions{gormLogger: logger.Discard}
	for _, option := range options {
		option(&opts)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         opts.gormLogger,
		NamingStrategy: schema.NamingStrategy{TablePrefix: opts.tablePrefix},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Client{db: db}, nil
}

// Ping checks the underlying connection
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// TableName returns the prefixed table name for a record type name such as "Folder"
func (c *Client) TableName(record string) string {
	return c.db.NamingStrategy.TableName(record)
}

// conn returns the transaction bound to ctx, or the base connection
func (c *Client) conn(ctx context.Context) *gorm.DB {
	if tx := transactionFromContext(ctx); tx != nil {
		return tx
	}
	return c.db.WithContext(ctx)
}
