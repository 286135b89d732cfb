package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

// UserRepository is the user directory, including the payout-account
// linkage for field owners.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, email, role, position, favorite_club, location,
	avatar_url, COALESCE(stripe_account_id, '')`

func (r UserRepository) GetByID(id int64) (models.User, error) {
	var u models.User
	err := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Position, &u.FavoriteClub,
		&u.Location, &u.AvatarURL, &u.StripeAccountID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, domain.InternalError{Err: err}
	}
	return u, nil
}

// GetCredentials returns the user plus the stored password hash, only
// for the login path.
func (r UserRepository) GetCredentials(email string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db().QueryRow(`
		SELECT `+userColumns+`, password_hash
		FROM users WHERE email = ? LIMIT 1`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.Role, &u.Position, &u.FavoriteClub,
		&u.Location, &u.AvatarURL, &u.StripeAccountID, &hash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", domain.NotFoundError{Resource: "user"}
	}
	if err != nil {
		return models.User{}, "", domain.InternalError{Err: err}
	}
	return u, hash, nil
}

func (r UserRepository) Create(name, email, passwordHash, role string) (int64, error) {
	var exists int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists); err != nil {
		return 0, domain.InternalError{Err: err}
	}
	if exists > 0 {
		return 0, domain.ConflictError{Resource: "user", Msg: "email already registered"}
	}

	res, err := r.db().Exec(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES (?, ?, ?, ?)`, name, email, passwordHash, role)
	if err != nil {
		return 0, domain.InternalError{Msg: "failed to create user", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return id, nil
}

func (r UserRepository) UpdateProfile(id int64, patch models.UserUpdate) error {
	sets := []string{}
	args := []any{}
	set := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, strings.TrimSpace(*v))
		}
	}
	set("name", patch.Name)
	set("position", patch.Position)
	set("favorite_club", patch.FavoriteClub)
	set("location", patch.Location)
	set("avatar_url", patch.AvatarURL)
	if len(sets) == 0 {
		return domain.ValidationError{Msg: "no fields to update"}
	}
	args = append(args, id)

	_, err := r.db().Exec(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

func (r UserRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.db().Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// SetStripeAccount links a payout account exactly once. The IS NULL
// guard makes re-onboarding lose even under a race.
func (r UserRepository) SetStripeAccount(id int64, accountID string) error {
	res, err := r.db().Exec(`
		UPDATE users SET stripe_account_id = ?
		WHERE id = ? AND stripe_account_id IS NULL`, accountID, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.ConflictError{Resource: "user", Msg: "payout account already linked"}
	}
	return nil
}

func (r UserRepository) CountByRole(role string) (int64, error) {
	var n int64
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM users WHERE role = ?`, role).Scan(&n); err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return n, nil
}

// JoinBucket is one point of the sign-up overview chart.
type JoinBucket struct {
	Bucket int64 `json:"bucket"`
	Count  int64 `json:"count"`
}

// JoiningOverview groups user sign-ups by week, month or year.
func (r UserRepository) JoiningOverview(filter string) ([]JoinBucket, error) {
	group := "WEEK(created_at)"
	switch filter {
	case "monthly":
		group = "MONTH(created_at)"
	case "yearly":
		group = "YEAR(created_at)"
	}

	rows, err := r.db().Query(`
		SELECT ` + group + ` AS bucket, COUNT(*)
		FROM users WHERE role = 'user'
		GROUP BY bucket ORDER BY bucket`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []JoinBucket{}
	for rows.Next() {
		var b JoinBucket
		if err := rows.Scan(&b.Bucket, &b.Count); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
