// Package models defines the core data structures for stored credentials
// and the persisted vault layout shared by both execution contexts.
package models

// Record represents a stored username/secret pair for one deployment.
// Records are immutable once created; edits are modeled as remove + add.
type Record struct {
	// Username is the login name shown in the selection control.
	Username string `json:"username"`
	// Secret is the password autofilled alongside the username.
	Secret string `json:"secret"`
}

// Empty reports whether the record carries nothing renderable at all.
// A record missing only its secret is still considered usable; the write
// path is trusted for everything short of a fully blank entry.
func (r Record) Empty() bool {
	return r.Username == "" && r.Secret == ""
}

// Vault maps an instance key to the ordered credential list stored for
// that deployment. List order is insertion order and is user-visible.
type Vault map[string][]Record

// Clone returns a deep copy of the vault so callers can mutate their
// working copy without aliasing the backend's view.
func (v Vault) Clone() Vault {
	out := make(Vault, len(v))
	for key, records := range v {
		cp := make([]Record, len(records))
		copy(cp, records)
		out[key] = cp
	}
	return out
}

// PersistedState is the top-level shape written to the persistence
// backend: the whole instance-key-to-credential-list mapping under one
// well-known key.
type PersistedState struct {
	// CredentialsByInstance is the full vault, keyed by instance key.
	CredentialsByInstance Vault `json:"credentialsByInstance"`
}
