package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

// Database represents a warehouse database connection
type Database struct {
	DB     *sqlx.DB
	logger logger.Logger
}

// New creates a new warehouse connection
func New(dsn string, logger logger.Logger) (*Database, error) {
	db, err := sqlx.Connect("postgres", dsn)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("Connected to warehouse")

	return &Database{
		DB:     db,
		logger: logger,
	}, nil
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	return d.DB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.DB.Close()
}

// RunMigrations creates the report tables and the run ledger
func (d *Database) RunMigrations() error {
	var statements []string
	for _, spec := range tableSpecs() {
		statements = append(statements, createTableStatement(spec))
	}
	statements = append(statements, createRunsTableStatement)

	schema := strings.Join(statements, "\n")

	_, err := d.DB.Exec(schema)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.logger.Info("Warehouse migrations completed successfully")
	return nil
}
