// Package http provides the HTTP handlers for the local credential
// management API.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// CredentialService defines the interface for management operations
// required by the CredentialsHandler.
type CredentialService interface {
	// List returns the credential records stored for the instance key.
	List(ctx context.Context, key string) []models.Record
	// Instances returns the instance keys that currently hold credentials.
	Instances(ctx context.Context) []string
	// Add appends a record to the instance key's list.
	Add(ctx context.Context, key string, rec models.Record)
	// RemoveAt deletes the record at the given position, reporting
	// whether the position existed.
	RemoveAt(ctx context.Context, key string, index int) bool
}

// CredentialsHandler handles HTTP requests for credential management.
type CredentialsHandler struct {
	// Service performs the underlying management operations.
	Service CredentialService
}

// AddRequest represents the JSON payload for appending a credential.
type AddRequest struct {
	// Instance is the instance key the record belongs to.
	Instance string `json:"instance"`
	// Username is the login name to store.
	Username string `json:"username"`
	// Secret is the password to store.
	Secret string `json:"secret"`
}

// Instances handles GET /api/instances requests.
func (h *CredentialsHandler) Instances(w http.ResponseWriter, r *http.Request) {
	keys := h.Service.Instances(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"instances": keys})
}

// List handles GET /api/credentials?instance=K requests. The instance
// query parameter is required.
func (h *CredentialsHandler) List(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("instance")
	if key == "" {
		http.Error(w, "instance query parameter required", http.StatusBadRequest)
		return
	}

	records := h.Service.List(r.Context(), key)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]models.Record{"credentials": records})
}

// Add handles POST /api/credentials requests. It expects a JSON body
// with non-empty "instance" and "username" fields; a record missing only
// its secret is accepted, matching the store's read-side filtering.
func (h *CredentialsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Instance == "" || req.Username == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.Service.Add(r.Context(), req.Instance, models.Record{
		Username: req.Username,
		Secret:   req.Secret,
	})

	w.WriteHeader(http.StatusCreated)
}

// Remove handles DELETE /api/credentials?instance=K&index=N requests,
// removing the record at display position N.
func (h *CredentialsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("instance")
	if key == "" {
		http.Error(w, "instance query parameter required", http.StatusBadRequest)
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "index query parameter required", http.StatusBadRequest)
		return
	}

	if !h.Service.RemoveAt(r.Context(), key, index) {
		http.Error(w, "no record at position", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
