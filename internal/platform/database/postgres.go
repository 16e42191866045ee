package database

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"catalog_portal/internal/platform/config"
	"catalog_portal/internal/platform/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var DB *sql.DB

func Connect() {
	var err error
	DB, err = sql.Open("pgx", config.AppConfig.DBConnStr)
	if err != nil {
		logger.Log.Fatalf("Error opening database: %v", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err = DB.Ping(); err != nil {
		logger.Log.Fatalf("Error connecting to database: %v", err)
	}

	logger.Log.Info("Successfully connected to PostgreSQL database")
}

// Sync brings the schema up to date with the embedded migrations.
func Sync(ctx context.Context) {
	if err := runMigrations(ctx, DB); err != nil {
		logger.Log.Fatalf("Error syncing database schema: %v", err)
	}
	logger.Log.Info("Database schema in sync")
}

// gooseUp is swapped in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUp(ctx, db, "migrations")
}

func Close() {
	if DB != nil {
		DB.Close()
		logger.Log.Info("Database connection closed")
	}
}
