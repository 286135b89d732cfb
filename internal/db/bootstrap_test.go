package db

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestBootstrapBackfillsPayoutColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	for range bootstrapDDL {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectQuery("information_schema.columns").
		WithArgs("users", "stripe_account_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("ALTER TABLE users ADD COLUMN stripe_account_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Bootstrap(conn); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBootstrapSkipsExistingColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	for range bootstrapDDL {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectQuery("information_schema.columns").
		WithArgs("users", "stripe_account_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("stripe_account_id"))

	if err := Bootstrap(conn); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHasTable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("information_schema.tables").
		WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery("information_schema.tables").
		WithArgs("ghosts").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	if !HasTable(conn, "bookings") {
		t.Fatal("expected bookings table to be reported present")
	}
	if HasTable(conn, "ghosts") {
		t.Fatal("expected missing table to be reported absent")
	}
}
