package service

import (
	"context"
	"testing"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// mockStore implements CredentialStore in memory.
type mockStore struct {
	vault models.Vault
}

func newMockStore() *mockStore {
	return &mockStore{vault: models.Vault{}}
}

func (m *mockStore) Get(ctx context.Context, key string) []models.Record {
	return append([]models.Record(nil), m.vault[key]...)
}

func (m *mockStore) Put(ctx context.Context, key string, records []models.Record) {
	m.vault[key] = append([]models.Record(nil), records...)
}

func (m *mockStore) Keys(ctx context.Context) []string {
	keys := make([]string, 0, len(m.vault))
	for key := range m.vault {
		keys = append(keys, key)
	}
	return keys
}

// mockNotifier counts emitted signals.
type mockNotifier struct {
	notified int
}

func (m *mockNotifier) Notify() { m.notified++ }

func TestAdd_AppendsAndNotifies(t *testing.T) {
	store := newMockStore()
	notifier := &mockNotifier{}
	svc := NewCredentialService(store, notifier)

	svc.Add(context.Background(), "db:mydb", models.Record{Username: "admin", Secret: "x"})
	svc.Add(context.Background(), "db:mydb", models.Record{Username: "demo", Secret: "y"})

	got := svc.List(context.Background(), "db:mydb")
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Username != "admin" || got[1].Username != "demo" {
		t.Errorf("insertion order not preserved: %+v", got)
	}
	if notifier.notified != 2 {
		t.Errorf("expected 2 sync signals, got %d", notifier.notified)
	}
}

func TestAdd_NilNotifier(t *testing.T) {
	svc := NewCredentialService(newMockStore(), nil)
	// Must not panic without an attached injector context.
	svc.Add(context.Background(), "db:mydb", models.Record{Username: "admin", Secret: "x"})
}

func TestRemoveAt_FirstOfTwo(t *testing.T) {
	store := newMockStore()
	store.vault["db:mydb"] = []models.Record{
		{Username: "u1", Secret: "s1"},
		{Username: "u2", Secret: "s2"},
	}
	svc := NewCredentialService(store, &mockNotifier{})

	if !svc.RemoveAt(context.Background(), "db:mydb", 0) {
		t.Fatal("RemoveAt reported failure for a valid position")
	}

	got := svc.List(context.Background(), "db:mydb")
	if len(got) != 1 || got[0].Username != "u2" {
		t.Errorf("expected [u2] after removing position 0, got %+v", got)
	}
}

func TestRemoveAt_OutOfRange(t *testing.T) {
	store := newMockStore()
	store.vault["db:mydb"] = []models.Record{{Username: "u1", Secret: "s1"}}
	svc := NewCredentialService(store, &mockNotifier{})

	for _, index := range []int{-1, 1, 99} {
		if svc.RemoveAt(context.Background(), "db:mydb", index) {
			t.Errorf("RemoveAt(%d) reported success for out-of-range position", index)
		}
	}
	if len(svc.List(context.Background(), "db:mydb")) != 1 {
		t.Error("out-of-range removal must not mutate the list")
	}
}

func TestInstances(t *testing.T) {
	store := newMockStore()
	svc := NewCredentialService(store, nil)
	svc.Add(context.Background(), "db:a", models.Record{Username: "u", Secret: "s"})
	svc.Add(context.Background(), "meta:Odoo", models.Record{Username: "v", Secret: "t"})

	keys := svc.Instances(context.Background())
	if len(keys) != 2 {
		t.Errorf("expected 2 instance keys, got %v", keys)
	}
}
