package services

import (
	"database/sql"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/repositories"
)

type ReportsService struct {
	PaymentRepo repositories.PaymentRepository
	UserRepo    repositories.UserRepository
	DB          *sql.DB
}

func (s ReportsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ReportsService) payments() repositories.PaymentRepository {
	if s.PaymentRepo.DB != nil {
		return s.PaymentRepo
	}
	return repositories.PaymentRepository{DB: s.db()}
}

func (s ReportsService) users() repositories.UserRepository {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepository{DB: s.db()}
}

// DashboardOverview aggregates platform-wide numbers for the admin
// dashboard.
type DashboardOverview struct {
	TotalRevenue     float64                  `json:"total_revenue"`
	TotalUsers       int64                    `json:"total_users"`
	TotalFieldOwners int64                    `json:"total_field_owners"`
	JoiningOverview  []repositories.JoinBucket `json:"joining_overview"`
}

// GetDashboardOverview mirrors the admin overview: settled revenue,
// role counts and sign-ups grouped by the requested period
// (weekly default, monthly, yearly).
func (s ReportsService) GetDashboardOverview(filter string) (DashboardOverview, error) {
	var out DashboardOverview

	revenue, err := s.payments().SumComplete()
	if err != nil {
		return out, err
	}
	out.TotalRevenue = revenue

	if out.TotalUsers, err = s.users().CountByRole(models.RoleUser); err != nil {
		return out, err
	}
	if out.TotalFieldOwners, err = s.users().CountByRole(models.RoleFieldOwner); err != nil {
		return out, err
	}
	if out.JoiningOverview, err = s.users().JoiningOverview(filter); err != nil {
		return out, err
	}
	return out, nil
}

// OwnerSpend is one row of the field-owner listing with subscription
// spend.
type OwnerSpend struct {
	UserID int64   `json:"user_id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Spent  float64 `json:"spent_on_subscription"`
}

// ListFieldOwners pages through field owners with their total plan
// spend (settled plan payments only).
func (s ReportsService) ListFieldOwners(page, limit int) ([]OwnerSpend, error) {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	rows, err := s.db().Query(`
		SELECT u.id, u.name, u.email,
		       COALESCE(SUM(CASE WHEN p.status = 'complete' AND p.type = 'plan' THEN p.amount ELSE 0 END), 0)
		FROM users u
		LEFT JOIN payments p ON p.user_id = u.id
		WHERE u.role = 'field_owner'
		GROUP BY u.id, u.name, u.email
		ORDER BY u.id
		LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []OwnerSpend{}
	for rows.Next() {
		var o OwnerSpend
		if err := rows.Scan(&o.UserID, &o.Name, &o.Email, &o.Spent); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
