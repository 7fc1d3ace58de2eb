// Package store implements the credential store: a keyed persistent map
// from instance key to an ordered list of credential records, backed by an
// injected persistence backend shared between the management context and
// the page-resident context.
package store

import (
	"context"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
	"go.uber.org/zap"
)

// Backend defines the persistence collaborator the store reads and writes
// the whole vault through. Both contexts coordinate only via this backend;
// there is no shared memory between them.
type Backend interface {
	// Read returns the current vault. A missing persisted state reads as
	// an empty vault, not an error.
	Read(ctx context.Context) (models.Vault, error)
	// Write replaces the persisted vault wholesale.
	Write(ctx context.Context, vault models.Vault) error
}

// Store is the sole owner of the credential data. Every read goes back to
// the backend so the two execution contexts never act on a stale personal
// copy. When the backend is unreachable the store degrades: reads return
// empty lists and writes are dropped, logged, never surfaced to callers.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// New constructs a Store on top of the given backend.
func New(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log}
}

// Get returns the ordered credential list stored for key. An absent key
// or a backend failure yields an empty list, never an error. Fully blank
// records are filtered out; partially-shaped ones are kept as written.
func (s *Store) Get(ctx context.Context, key string) []models.Record {
	vault, err := s.backend.Read(ctx)
	if err != nil {
		s.log.Warn("backend read failed, treating store as empty", zap.Error(err))
		return []models.Record{}
	}

	records := vault[key]
	out := make([]models.Record, 0, len(records))
	for _, rec := range records {
		if rec.Empty() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Put replaces the entire list stored under key. The replacement is
// implemented as a read-modify-write of the whole vault; concurrent
// writers from the two contexts race last-put-wins, which is accepted.
// Backend failures drop the write silently apart from a log line.
func (s *Store) Put(ctx context.Context, key string, records []models.Record) {
	vault, err := s.backend.Read(ctx)
	if err != nil {
		s.log.Warn("backend read failed, dropping write", zap.String("instance", key), zap.Error(err))
		return
	}

	vault = vault.Clone()
	if len(records) == 0 {
		vault[key] = []models.Record{}
	} else {
		cp := make([]models.Record, len(records))
		copy(cp, records)
		vault[key] = cp
	}

	if err := s.backend.Write(ctx, vault); err != nil {
		s.log.Warn("backend write failed, dropping write", zap.String("instance", key), zap.Error(err))
	}
}

// Keys returns the instance keys currently present in the vault, in no
// particular order. Backend failure yields an empty slice.
func (s *Store) Keys(ctx context.Context) []string {
	vault, err := s.backend.Read(ctx)
	if err != nil {
		s.log.Warn("backend read failed, no instances listed", zap.Error(err))
		return []string{}
	}

	keys := make([]string, 0, len(vault))
	for key := range vault {
		keys = append(keys, key)
	}
	return keys
}
