// Package pgtest starts the PostgreSQL database used by integration tests.
//
// An external database is used when TEST_DB_HOST is set (CI or local development),
// otherwise a throwaway container is started with testcontainers.
package pgtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database is a connected and initialized test database
type Database struct {
	DB        *gorm.DB
	container *postgres.PostgresContainer
}

// Start connects to the test database and applies db/init_pg_db.sql
func Start(ctx context.Context) (*Database, error) {
	dsn, container, err := resolveDSN(ctx)
	if err != nil {
		return nil, err
	}

	database := &Database{container: container}

	database.DB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		database.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := initializeSchema(database.DB); err != nil {
		database.Terminate(ctx)
		return nil, err
	}

	return database, nil
}

// Terminate stops the container if one was started
func (d *Database) Terminate(ctx context.Context) {
	if d == nil || d.container == nil {
		return
	}
	if err := d.container.Terminate(ctx); err != nil {
		fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
	}
}

// BeginTx starts a transaction that is rolled back when the test ends
func (d *Database) BeginTx(t *testing.T) *gorm.DB {
	tx := d.DB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return tx
}

// Run is the body of a package TestMain backed by the test database
func Run(m *testing.M, database **Database) {
	ctx := context.Background()

	db, err := Start(ctx)
	if err != nil {
		fmt.Printf("Failed to start test database: %v\n", err)
		os.Exit(1)
	}
	*database = db

	code := m.Run()

	db.Terminate(ctx)
	os.Exit(code)
}

func resolveDSN(ctx context.Context) (string, *postgres.PostgresContainer, error) {
	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost != "" {
		dbPort := envOrDefault("TEST_DB_PORT", "5432")
		dbUser := envOrDefault("TEST_DB_USER", "postgres")
		dbPassword := envOrDefault("TEST_DB_PASSWORD", "postgres")
		dbName := envOrDefault("TEST_DB_NAME", "test_db")

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName), nil, nil
	}

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
		return "", nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	fmt.Printf("Started PostgreSQL container\n")
	return dsn, container, nil
}

func initializeSchema(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	schemaSQL, err := os.ReadFile(SchemaPath()) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := sqlDB.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SchemaPath returns the absolute path of db/init_pg_db.sql
func SchemaPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "init_pg_db.sql")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
