package repositories

import (
	"database/sql"
	"errors"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

type PlanRepository struct {
	DB *sql.DB
}

func (r PlanRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const planColumns = `id, name, price, description, COALESCE(benefits, ''), billing_cycle`

func (r PlanRepository) List() ([]models.Plan, error) {
	rows, err := r.db().Query(`SELECT ` + planColumns + ` FROM plans ORDER BY price`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Plan{}
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Benefits, &p.BillingCycle); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PlanRepository) GetByID(id int64) (models.Plan, error) {
	var p models.Plan
	err := r.db().QueryRow(`SELECT `+planColumns+` FROM plans WHERE id = ? LIMIT 1`, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Description, &p.Benefits, &p.BillingCycle,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Plan{}, domain.NotFoundError{Resource: "plan"}
	}
	if err != nil {
		return models.Plan{}, domain.InternalError{Err: err}
	}
	return p, nil
}

func (r PlanRepository) Create(p *models.Plan) error {
	res, err := r.db().Exec(`
		INSERT INTO plans (name, price, description, benefits, billing_cycle)
		VALUES (?, ?, ?, ?, ?)`,
		p.Name, p.Price, p.Description, p.Benefits, p.BillingCycle,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to create plan", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	p.ID = id
	return nil
}

func (r PlanRepository) Update(id int64, p models.Plan) error {
	res, err := r.db().Exec(`
		UPDATE plans SET name=?, price=?, description=?, benefits=?, billing_cycle=?
		WHERE id = ?`,
		p.Name, p.Price, p.Description, p.Benefits, p.BillingCycle, id,
	)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow(`SELECT COUNT(*) FROM plans WHERE id = ?`, id).Scan(&exists); err != nil {
			return domain.InternalError{Err: err}
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "plan"}
		}
	}
	return nil
}

func (r PlanRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "plan"}
	}
	return nil
}
