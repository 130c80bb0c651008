package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/reviewbox/pkg/models"
)

// File keeps the store as one pretty-printed JSON file under the data
// directory
type File struct {
	path string
}

// NewFile prepares a file backend at <dataDir>/<storeName>.json
func NewFile(dataDir, storeName string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &File{path: filepath.Join(dataDir, storeName+".json")}, nil
}

// Load returns the persisted store; a missing file yields an empty store
func (f *File) Load() (models.Store, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return models.Store{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}
	return decodeStore(string(data))
}

// Save overwrites the store file with the given store
func (f *File) Save(store models.Store) error {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}
