package database

import (
	"database/sql"
	"fmt"
	"os"

	"badminton_board_backend/pkg/utils"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// kvSchema creates the table behind store.SQLStore. It is valid for both
// supported drivers.
const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	store_key   TEXT PRIMARY KEY,
	store_value TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
)`

// PostgresConfig holds the connection settings for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN builds a lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// OpenPostgres opens and pings a PostgreSQL pool.
func OpenPostgres(cfg PostgresConfig) (*sql.DB, error) {
	return open(DriverPostgres, cfg.DSN())
}

// OpenSQLite opens a SQLite database file (or ":memory:").
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; a single connection also keeps an
	// in-memory database alive for the pool's lifetime.
	db.SetMaxOpenConns(1)
	return db, nil
}

func open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening %s database: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to %s database: %w", driver, err)
	}
	utils.LogInfo("Successfully connected to the database", map[string]interface{}{"driver": driver})
	return db, nil
}

// ApplySchema creates the key-value table and then runs the optional extra
// script at schemaPath.
func ApplySchema(db *sql.DB, schemaPath string) error {
	if _, err := db.Exec(kvSchema); err != nil {
		return fmt.Errorf("could not create kv_store table: %w", err)
	}
	if schemaPath == "" {
		utils.LogDebug("No extra schema path provided, skipping script")
		return nil
	}
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}
	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied successfully", map[string]interface{}{"path": schemaPath})
	return nil
}
