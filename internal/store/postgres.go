package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

// PostgresBackend persists the vault in a PostgreSQL table, one row per
// record, ordered by position within each instance key. It satisfies the
// same whole-vault Read/Write contract as the file backend so the store
// stays oblivious to which one it runs on.
type PostgresBackend struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresBackend wraps an existing database handle.
// db must be a valid connection to a PostgreSQL instance.
func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{DB: db}
}

// Read assembles the full vault from the credentials table, preserving
// per-instance insertion order.
func (b *PostgresBackend) Read(ctx context.Context) (models.Vault, error) {
	rows, err := b.DB.QueryContext(ctx, `
		SELECT instance_key, username, secret FROM credentials ORDER BY instance_key, position
	`)
	if err != nil {
		return nil, fmt.Errorf("Read: %w", err)
	}
	defer rows.Close()

	vault := models.Vault{}
	for rows.Next() {
		var key string
		var rec models.Record
		if err := rows.Scan(&key, &rec.Username, &rec.Secret); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		vault[key] = append(vault[key], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return vault, nil
}

// Write replaces the persisted vault wholesale within one transaction.
func (b *PostgresBackend) Write(ctx context.Context, vault models.Vault) error {
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}

	for key, records := range vault {
		for pos, rec := range records {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO credentials (instance_key, position, username, secret)
				VALUES ($1, $2, $3, $4)
			`, key, pos, rec.Username, rec.Secret)
			if err != nil {
				return fmt.Errorf("insert credential: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
