package database

import (
	"fmt"
	"path/filepath"

	"toss-go/internal/config"
)

// NewStoreFromConfig creates a history Store based on the database config type.
func NewStoreFromConfig(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite history database")
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "history.db"))
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
