package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/heyzeeshan/odoo-quick-login/internal/models"
)

func setupMock(t *testing.T) (*PostgresBackend, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	backend := NewPostgresBackend(db)
	cleanup := func() {
		db.Close()
	}
	return backend, mock, cleanup
}

func TestPostgresRead_Success(t *testing.T) {
	backend, mock, cleanup := setupMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"instance_key", "username", "secret"}).
		AddRow("db:mydb", "admin", "x").
		AddRow("db:mydb", "demo", "y").
		AddRow("meta:Odoo 16.0", "root", "z")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT instance_key, username, secret FROM credentials ORDER BY instance_key, position`)).
		WillReturnRows(rows)

	vault, err := backend.Read(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vault["db:mydb"]) != 2 {
		t.Errorf("expected 2 records for db:mydb, got %d", len(vault["db:mydb"]))
	}
	if vault["db:mydb"][0].Username != "admin" || vault["db:mydb"][1].Username != "demo" {
		t.Errorf("unexpected order: %+v", vault["db:mydb"])
	}
	if len(vault["meta:Odoo 16.0"]) != 1 {
		t.Errorf("expected 1 record for meta key, got %d", len(vault["meta:Odoo 16.0"]))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRead_Error(t *testing.T) {
	backend, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT instance_key, username, secret FROM credentials`)).
		WillReturnError(errors.New("query fail"))

	if _, err := backend.Read(context.Background()); err == nil {
		t.Error("expected error from failing query")
	}
}

func TestPostgresWrite_Success(t *testing.T) {
	backend, mock, cleanup := setupMock(t)
	defer cleanup()

	vault := models.Vault{
		"db:mydb": {{Username: "admin", Secret: "x"}, {Username: "demo", Secret: "y"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credentials`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials (instance_key, position, username, secret)`)).
		WithArgs("db:mydb", 0, "admin", "x").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials (instance_key, position, username, secret)`)).
		WithArgs("db:mydb", 1, "demo", "y").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := backend.Write(context.Background(), vault); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresWrite_InsertFailureRollsBack(t *testing.T) {
	backend, mock, cleanup := setupMock(t)
	defer cleanup()

	vault := models.Vault{"db:mydb": {{Username: "admin", Secret: "x"}}}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM credentials`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO credentials`)).
		WithArgs("db:mydb", 0, "admin", "x").
		WillReturnError(errors.New("insert fail"))
	mock.ExpectRollback()

	if err := backend.Write(context.Background(), vault); err == nil {
		t.Error("expected error from failing insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
