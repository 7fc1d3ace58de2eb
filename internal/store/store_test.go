package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// memBackend implements Backend in memory for store tests.
type memBackend struct {
	vault    models.Vault
	readErr  error
	writeErr error
	writes   int
}

func (m *memBackend) Read(ctx context.Context) (models.Vault, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.vault, nil
}

func (m *memBackend) Write(ctx context.Context, vault models.Vault) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	m.vault = vault
	return nil
}

func TestStore_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		records []models.Record
	}{
		{
			name:    "two records keep order",
			key:     "db:mydb",
			records: []models.Record{{Username: "admin", Secret: "x"}, {Username: "demo", Secret: "y"}},
		},
		{
			name:    "duplicates are permitted",
			key:     "meta:Odoo 16.0",
			records: []models.Record{{Username: "admin", Secret: "x"}, {Username: "admin", Secret: "x"}},
		},
		{
			name:    "empty list",
			key:     "origin:http://localhost:8069",
			records: []models.Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(&memBackend{vault: models.Vault{}}, nil)
			s.Put(context.Background(), tt.key, tt.records)
			assert.Equal(t, tt.records, s.Get(context.Background(), tt.key))
		})
	}
}

func TestStore_GetAbsentKey(t *testing.T) {
	s := New(&memBackend{vault: models.Vault{}}, nil)
	got := s.Get(context.Background(), "db:missing")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStore_GetFiltersBlankRecords(t *testing.T) {
	backend := &memBackend{vault: models.Vault{
		"db:mydb": {{Username: "admin", Secret: "x"}, {}, {Username: "nosecret"}},
	}}
	s := New(backend, nil)

	got := s.Get(context.Background(), "db:mydb")
	// The fully blank record is dropped; the partially-shaped one is kept.
	assert.Equal(t, []models.Record{{Username: "admin", Secret: "x"}, {Username: "nosecret"}}, got)
}

func TestStore_PutDoesNotTouchOtherKeys(t *testing.T) {
	backend := &memBackend{vault: models.Vault{
		"db:other": {{Username: "keep", Secret: "k"}},
	}}
	s := New(backend, nil)

	s.Put(context.Background(), "db:mydb", []models.Record{{Username: "admin", Secret: "x"}})

	assert.Equal(t, []models.Record{{Username: "keep", Secret: "k"}}, s.Get(context.Background(), "db:other"))
	assert.Equal(t, []models.Record{{Username: "admin", Secret: "x"}}, s.Get(context.Background(), "db:mydb"))
}

func TestStore_BackendReadFailure(t *testing.T) {
	backend := &memBackend{readErr: errors.New("backend down")}
	s := New(backend, nil)

	// Reads degrade to empty, writes are dropped, nothing panics.
	assert.Empty(t, s.Get(context.Background(), "db:mydb"))
	assert.Empty(t, s.Keys(context.Background()))
	s.Put(context.Background(), "db:mydb", []models.Record{{Username: "admin", Secret: "x"}})
	assert.Zero(t, backend.writes)
}

func TestStore_BackendWriteFailure(t *testing.T) {
	backend := &memBackend{vault: models.Vault{}, writeErr: errors.New("disk full")}
	s := New(backend, nil)

	s.Put(context.Background(), "db:mydb", []models.Record{{Username: "admin", Secret: "x"}})
	assert.Empty(t, s.Get(context.Background(), "db:mydb"))
}

func TestStore_Keys(t *testing.T) {
	backend := &memBackend{vault: models.Vault{
		"db:a":             {{Username: "u", Secret: "s"}},
		"origin:http://so": {},
	}}
	s := New(backend, nil)

	assert.ElementsMatch(t, []string{"db:a", "origin:http://so"}, s.Keys(context.Background()))
}
