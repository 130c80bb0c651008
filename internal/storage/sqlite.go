package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/reviewbox/pkg/models"
)

// SQLite keeps the store blob in a single row of a local sqlite database
type SQLite struct {
	db   *sqlx.DB
	name string
}

// NewSQLite opens (creating if needed) the database under dataDir and
// prepares the review_store table. storeName is the row key the blob
// lives under.
func NewSQLite(dataDir, storeName string) (*SQLite, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "reviewbox.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS review_store (
			name TEXT PRIMARY KEY,
			blob TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create review_store table: %w", err)
	}

	return &SQLite{db: db, name: storeName}, nil
}

// Load returns the persisted store, or an empty one if nothing was saved yet
func (s *SQLite) Load() (models.Store, error) {
	var blob string
	err := s.db.Get(&blob, "SELECT blob FROM review_store WHERE name = $1", s.name)
	if err == sql.ErrNoRows {
		return models.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return decodeStore(blob)
}

// Save overwrites the persisted blob with the given store
func (s *SQLite) Save(store models.Store) error {
	blob, err := encodeStore(store)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO review_store (name, blob, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			blob = excluded.blob,
			updated_at = CURRENT_TIMESTAMP
	`, s.name, blob)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
