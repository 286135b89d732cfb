package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

// FieldRepository is the field catalog. The booking workflow only
// reads it; writes come from owner CRUD.
type FieldRepository struct {
	DB *sql.DB
}

func (r FieldRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const fieldColumns = `id, field_name, description, field_type, price_per_hour,
	address, image_url, owner_id, is_active`

func (r FieldRepository) GetByID(id int64) (models.Field, error) {
	var f models.Field
	err := r.db().QueryRow(`SELECT `+fieldColumns+` FROM fields WHERE id = ? LIMIT 1`, id).Scan(
		&f.ID, &f.FieldName, &f.Description, &f.FieldType, &f.PricePerHour,
		&f.Address, &f.ImageURL, &f.OwnerID, &f.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Field{}, domain.NotFoundError{Resource: "field"}
	}
	if err != nil {
		return models.Field{}, domain.InternalError{Err: err}
	}
	return f, nil
}

// List applies type/price filters with pagination and returns the
// total match count for the pager.
func (r FieldRepository) List(filter models.FieldFilter) ([]models.Field, int64, error) {
	where := []string{"is_active = 1"}
	args := []any{}
	if filter.FieldType != "" {
		where = append(where, "field_type = ?")
		args = append(args, filter.FieldType)
	}
	if filter.MinPrice > 0 {
		where = append(where, "price_per_hour >= ?")
		args = append(args, filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		where = append(where, "price_per_hour <= ?")
		args = append(args, filter.MaxPrice)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM fields WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db().Query(`
		SELECT `+fieldColumns+` FROM fields
		WHERE `+cond+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Field{}
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(
			&f.ID, &f.FieldName, &f.Description, &f.FieldType, &f.PricePerHour,
			&f.Address, &f.ImageURL, &f.OwnerID, &f.IsActive,
		); err != nil {
			return nil, 0, domain.InternalError{Err: err}
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r FieldRepository) Create(f *models.Field) error {
	res, err := r.db().Exec(`
		INSERT INTO fields (field_name, description, field_type, price_per_hour, address, image_url, owner_id, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		f.FieldName, f.Description, f.FieldType, f.PricePerHour, f.Address, f.ImageURL, f.OwnerID,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to create field", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	f.ID = id
	f.IsActive = true
	return nil
}

// Update only touches rows owned by ownerID so an owner cannot edit
// someone else's field.
func (r FieldRepository) Update(id, ownerID int64, f models.Field) error {
	res, err := r.db().Exec(`
		UPDATE fields SET field_name=?, description=?, field_type=?, price_per_hour=?, address=?, image_url=?
		WHERE id = ? AND owner_id = ?`,
		f.FieldName, f.Description, f.FieldType, f.PricePerHour, f.Address, f.ImageURL, id, ownerID,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return r.explainNoEffect(res, id, ownerID)
}

func (r FieldRepository) Delete(id, ownerID int64) error {
	res, err := r.db().Exec(`UPDATE fields SET is_active = 0 WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return r.explainNoEffect(res, id, ownerID)
}

// explainNoEffect treats a row another owner holds as not found, so
// the API never reveals foreign fields. A no-change update counts as
// applied.
func (r FieldRepository) explainNoEffect(res sql.Result, id, ownerID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n > 0 {
		return nil
	}
	var exists int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM fields WHERE id = ? AND owner_id = ?`, id, ownerID).Scan(&exists); err != nil {
		return domain.InternalError{Err: err}
	}
	if exists == 0 {
		return domain.NotFoundError{Resource: "field"}
	}
	return nil
}
