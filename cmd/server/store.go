package main

import (
	"context"
	"database/sql"
	"fmt"

	"badminton_board_backend/internal/config"
	"badminton_board_backend/internal/database"
	"badminton_board_backend/internal/store"
)

// openStore builds the key-value backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.KVStore, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return store.NewMemoryStore(), nil
	case config.StoreDriverPostgres:
		db, err := database.OpenPostgres(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return sqlStore(db, cfg.SchemaPath)
	case config.StoreDriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqlStore(db, cfg.SchemaPath)
	case config.StoreDriverRedis:
		rs, err := store.NewRedisStore(ctx, store.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPass,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func sqlStore(db *sql.DB, schemaPath string) (store.KVStore, error) {
	if err := database.ApplySchema(db, schemaPath); err != nil {
		db.Close()
		return nil, err
	}
	return store.NewSQLStore(db), nil
}
