// Package service provides the management-surface business logic for
// listing, adding, and removing stored credentials, delegating persistence
// to the credential store and change notification to the sync signal.
package service

import (
	"context"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// CredentialStore defines the store operations needed by the service.
type CredentialStore interface {
	// Get returns the ordered credential list for the instance key,
	// empty when absent.
	Get(ctx context.Context, key string) []models.Record
	// Put replaces the entire list for the instance key.
	Put(ctx context.Context, key string, records []models.Record)
	// Keys returns the instance keys present in the vault.
	Keys(ctx context.Context) []string
}

// Notifier emits the fire-and-forget sync signal consumed by the
// page-resident injector.
type Notifier interface {
	Notify()
}

// CredentialService implements the management operations. All mutations
// follow the store's read-modify-write pattern; concurrent edits from the
// page context race last-put-wins by design.
type CredentialService struct {
	store    CredentialStore
	notifier Notifier
}

// NewCredentialService constructs a CredentialService. notifier may be
// nil when no injector context is attached.
func NewCredentialService(store CredentialStore, notifier Notifier) *CredentialService {
	return &CredentialService{store: store, notifier: notifier}
}

// List returns the credential records stored for the instance key in
// display order.
func (s *CredentialService) List(ctx context.Context, key string) []models.Record {
	return s.store.Get(ctx, key)
}

// Instances returns the instance keys that currently hold credentials.
func (s *CredentialService) Instances(ctx context.Context) []string {
	return s.store.Keys(ctx)
}

// Add appends rec to the instance key's list and emits the sync signal
// so an attached injector re-renders without a page reload. Duplicates
// are permitted; position is the only record identity.
func (s *CredentialService) Add(ctx context.Context, key string, rec models.Record) {
	records := s.store.Get(ctx, key)
	s.store.Put(ctx, key, append(records, rec))
	if s.notifier != nil {
		s.notifier.Notify()
	}
}

// RemoveAt deletes the record at the given display position. It reports
// whether the position addressed an existing record.
func (s *CredentialService) RemoveAt(ctx context.Context, key string, index int) bool {
	records := s.store.Get(ctx, key)
	if index < 0 || index >= len(records) {
		return false
	}
	records = append(records[:index], records[index+1:]...)
	s.store.Put(ctx, key, records)
	return true
}
