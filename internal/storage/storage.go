// Package storage persists the whole review store as a single JSON blob
// behind a small key-value contract, so the scheduler never touches a
// database or the filesystem directly.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/example/reviewbox/pkg/models"
)

// Backend loads and saves the full review store.
// Load must yield an empty store when nothing has been persisted yet,
// never an error. Save overwrites the entire persisted blob.
type Backend interface {
	Load() (models.Store, error)
	Save(store models.Store) error
}

// Config selects and configures a backend
type Config struct {
	Type      string         `mapstructure:"type" validate:"oneof=sqlite postgres file memory"`
	StoreName string         `mapstructure:"store_name" validate:"required"`
	Postgres  PostgresConfig `mapstructure:"postgres"`
}

// Open creates the backend named by cfg.Type. dataDir is where the
// sqlite and file backends keep their data.
func Open(cfg Config, dataDir string) (Backend, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(dataDir, cfg.StoreName)
	case "postgres":
		return NewPostgres(cfg.Postgres, cfg.StoreName)
	case "file":
		return NewFile(dataDir, cfg.StoreName)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// encodeStore serializes the store as the canonical JSON object blob
func encodeStore(store models.Store) (string, error) {
	data, err := json.Marshal(store)
	if err != nil {
		return "", fmt.Errorf("failed to encode store: %w", err)
	}
	return string(data), nil
}

// decodeStore parses a persisted blob; empty input yields an empty store
func decodeStore(blob string) (models.Store, error) {
	if blob == "" {
		return models.Store{}, nil
	}
	var store models.Store
	if err := json.Unmarshal([]byte(blob), &store); err != nil {
		return nil, fmt.Errorf("failed to decode store: %w", err)
	}
	if store == nil {
		store = models.Store{}
	}
	return store, nil
}
