package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/example/reviewbox/pkg/models"
)

// PostgresConfig holds the connection settings for the postgres backend
type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSL             string        `mapstructure:"ssl"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifeTime time.Duration `mapstructure:"conn_max_life_time"`
}

// Postgres keeps the store blob in a single row of a postgres database
type Postgres struct {
	db   *sqlx.DB
	name string
}

// NewPostgres connects to the configured database and prepares the
// review_store table
func NewPostgres(cfg PostgresConfig, storeName string) (*Postgres, error) {
	ssl := cfg.SSL
	if ssl == "" {
		ssl = "disable"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, ssl)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifeTime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifeTime)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS review_store (
			name TEXT PRIMARY KEY,
			blob TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT NOW()
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create review_store table: %w", err)
	}

	return &Postgres{db: db, name: storeName}, nil
}

// Load returns the persisted store, or an empty one if nothing was saved yet
func (p *Postgres) Load() (models.Store, error) {
	var blob string
	err := p.db.Get(&blob, "SELECT blob FROM review_store WHERE name = $1", p.name)
	if err == sql.ErrNoRows {
		return models.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return decodeStore(blob)
}

// Save overwrites the persisted blob with the given store
func (p *Postgres) Save(store models.Store) error {
	blob, err := encodeStore(store)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
		INSERT INTO review_store (name, blob)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET
			blob = EXCLUDED.blob,
			updated_at = NOW()
	`, p.name, blob)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// Close closes the database connection
func (p *Postgres) Close() error {
	return p.db.Close()
}
