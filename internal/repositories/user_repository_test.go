package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"fieldbook/internal/domain"
)

func TestSetStripeAccountLinksOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET stripe_account_id").
		WithArgs("acct_123", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := UserRepository{DB: db}
	if err := repo.SetStripeAccount(7, "acct_123"); err != nil {
		t.Fatalf("expected link to succeed, got %v", err)
	}
}

func TestSetStripeAccountAlreadyLinked(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// IS NULL guard: a second link attempt touches zero rows.
	mock.ExpectExec("UPDATE users SET stripe_account_id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := UserRepository{DB: db}
	err = repo.SetStripeAccount(7, "acct_456")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("taken@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := UserRepository{DB: db}
	_, err = repo.Create("Someone", "taken@example.com", "hash", "user")
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}
