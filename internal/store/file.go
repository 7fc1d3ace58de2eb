package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// DefaultVaultFile is the vault location used when no path is configured,
// relative to the user's home directory.
const DefaultVaultFile = ".odoo-quick-login/vault.json"

// FileBackend persists the vault as a single JSON document on disk.
// The mutex serializes readers and writers within one process; across
// processes the last write wins, matching the store's consistency model.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// NewFileBackend creates a file-backed persistence backend. If path is
// empty the default location under the user's home directory is used.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, DefaultVaultFile)
	}
	return &FileBackend{path: path}, nil
}

// Read loads the persisted state. A missing file reads as an empty vault.
func (b *FileBackend) Read(_ context.Context) (models.Vault, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	f, err := os.Open(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Vault{}, nil
		}
		return nil, fmt.Errorf("open vault file: %w", err)
	}
	defer f.Close()

	var state models.PersistedState
	if err := json.NewDecoder(f).Decode(&state); err != nil {
		return nil, fmt.Errorf("decode vault file: %w", err)
	}
	if state.CredentialsByInstance == nil {
		state.CredentialsByInstance = models.Vault{}
	}
	return state.CredentialsByInstance, nil
}

// Write replaces the persisted state, creating the parent directory on
// first use.
func (b *FileBackend) Write(_ context.Context, vault models.Vault) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create vault directory: %w", err)
	}

	f, err := os.Create(b.path)
	if err != nil {
		return fmt.Errorf("create vault file: %w", err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(models.PersistedState{CredentialsByInstance: vault})
}
