package repositories

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

// PaymentRepository is the payment ledger. A record transitions out of
// pending exactly once; the conditional settle update is what makes
// concurrent confirmations safe.
type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const mysqlDuplicateEntry = 1062

// Open persists a pending record at intent-creation time. The unique
// key on booking_id turns a duplicate intent into a Conflict, which
// keeps at most one active intent per booking.
func (r PaymentRepository) Open(rec *models.PaymentRecord) error {
	res, err := r.db().Exec(`
		INSERT INTO payments (user_id, booking_id, plan_id, amount, transaction_id, status, type)
		VALUES (?, ?, ?, ?, ?, 'pending', ?)`,
		rec.UserID, nullableID(rec.BookingID), nullableID(rec.PlanID),
		rec.Amount, rec.TransactionID, rec.Type,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return domain.ConflictError{Resource: "payment", Msg: "record already exists for this booking"}
		}
		return domain.InternalError{Msg: "failed to open payment record", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	rec.ID = id
	rec.Status = models.PaymentPending
	return nil
}

const paymentColumns = `id, user_id, COALESCE(booking_id, 0), COALESCE(plan_id, 0),
	amount, transaction_id, status, type`

// FindByTransactionID is the only lookup path during confirmation;
// confirmation requests carry the transaction id, not the booking id.
func (r PaymentRepository) FindByTransactionID(txID string) (models.PaymentRecord, error) {
	return r.find(`WHERE transaction_id = ?`, txID)
}

// FindByBookingID supports idempotent intent retries.
func (r PaymentRepository) FindByBookingID(bookingID int64) (models.PaymentRecord, error) {
	return r.find(`WHERE booking_id = ?`, bookingID)
}

func (r PaymentRepository) find(where string, arg any) (models.PaymentRecord, error) {
	var p models.PaymentRecord
	err := r.db().QueryRow(`SELECT `+paymentColumns+` FROM payments `+where+` LIMIT 1`, arg).Scan(
		&p.ID, &p.UserID, &p.BookingID, &p.PlanID,
		&p.Amount, &p.TransactionID, &p.Status, &p.Type,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PaymentRecord{}, domain.NotFoundError{Resource: "payment record"}
	}
	if err != nil {
		return models.PaymentRecord{}, domain.InternalError{Err: err}
	}
	return p, nil
}

// Settle moves a record from pending to a terminal status. The WHERE
// clause rejects a second settle: exactly one caller wins.
func (r PaymentRepository) Settle(txID, status string) error {
	if status != models.PaymentComplete && status != models.PaymentFailed {
		return domain.ValidationError{Field: "status", Msg: "not a terminal status"}
	}
	res, err := r.db().Exec(`
		UPDATE payments SET status = ?
		WHERE transaction_id = ? AND status = 'pending'`, status, txID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n > 0 {
		return nil
	}

	var current string
	err = r.db().QueryRow(`SELECT status FROM payments WHERE transaction_id = ? LIMIT 1`, txID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: "payment record"}
	}
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return domain.ConflictError{Resource: "payment", Msg: "already settled as " + current}
}

// DeleteFailedByBooking clears a failed record so a retry can open a
// fresh intent for the same booking. The status guard means a record
// that settled complete in the meantime is never removed.
func (r PaymentRepository) DeleteFailedByBooking(bookingID int64) error {
	_, err := r.db().Exec(`DELETE FROM payments WHERE booking_id = ? AND status = 'failed'`, bookingID)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return nil
}

// Anomaly is a settled payment whose booking write did not land.
type Anomaly struct {
	TransactionID string
	BookingID     int64
}

// ListAnomalies finds complete payments whose bookings are still
// pending, the detectable inconsistent state the sweep repairs.
func (r PaymentRepository) ListAnomalies() ([]Anomaly, error) {
	rows, err := r.db().Query(`
		SELECT p.transaction_id, p.booking_id
		FROM payments p
		JOIN bookings b ON b.id = p.booking_id
		WHERE p.status = 'complete' AND b.payment_status = 'pending'`)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []Anomaly{}
	for rows.Next() {
		var a Anomaly
		if err := rows.Scan(&a.TransactionID, &a.BookingID); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SumComplete totals revenue from settled payments.
func (r PaymentRepository) SumComplete() (float64, error) {
	var total float64
	err := r.db().QueryRow(`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'complete'`).Scan(&total)
	if err != nil {
		return 0, domain.InternalError{Err: err}
	}
	return total, nil
}

func (r PaymentRepository) ListByUser(userID int64) ([]models.PaymentRecord, error) {
	rows, err := r.db().Query(`SELECT `+paymentColumns+` FROM payments WHERE user_id = ? ORDER BY id DESC`, userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.PaymentRecord{}
	for rows.Next() {
		var p models.PaymentRecord
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.BookingID, &p.PlanID,
			&p.Amount, &p.TransactionID, &p.Status, &p.Type,
		); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// nullableID maps a zero id to NULL so unique keys ignore the column.
func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
