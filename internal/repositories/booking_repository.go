package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
)

// BookingRepository is the booking ledger. Writes that depend on
// booking state are single conditional statements so concurrent
// writers serialize at the storage layer, not in process.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingColumns = `id, field_id, user_id, owner_id,
	DATE_FORMAT(booking_date, '%Y-%m-%d'), start_time, end_time,
	duration_hours, total_price, payment_status`

// Create inserts a pending booking, refusing overlaps on the same
// field and date. The overlap check and the insert are one statement,
// so two racing requests for the same slot cannot both commit.
func (r BookingRepository) Create(b *models.Booking) error {
	res, err := r.db().Exec(`
		INSERT INTO bookings
			(field_id, user_id, owner_id, booking_date, start_time, end_time, duration_hours, total_price, payment_status)
		SELECT ?, ?, ?, ?, ?, ?, ?, ?, 'pending' FROM DUAL
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE field_id = ? AND booking_date = ?
			  AND payment_status <> 'failed'
			  AND start_time < ? AND end_time > ?
		)`,
		b.FieldID, b.UserID, b.OwnerID, b.Date, b.StartTime, b.EndTime, b.Duration, b.TotalPrice,
		b.FieldID, b.Date, b.EndTime, b.StartTime,
	)
	if err != nil {
		return domain.InternalError{Msg: "failed to create booking", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.ConflictError{Resource: "booking", Msg: "slot already booked"}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	b.ID = id
	b.PaymentStatus = models.BookingPaymentPending
	return nil
}

func (r BookingRepository) GetByID(id int64) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRow(`
		SELECT `+bookingColumns+`
		FROM bookings WHERE id = ? LIMIT 1`, id).Scan(
		&b.ID, &b.FieldID, &b.UserID, &b.OwnerID,
		&b.Date, &b.StartTime, &b.EndTime,
		&b.Duration, &b.TotalPrice, &b.PaymentStatus,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, domain.InternalError{Err: err}
	}
	return b, nil
}

// ListByFieldDate returns every booking for a field on a date so the
// caller can compute free slots.
func (r BookingRepository) ListByFieldDate(fieldID int64, date string) ([]models.Booking, error) {
	return r.list(`WHERE field_id = ? AND booking_date = ? ORDER BY start_time`, fieldID, date)
}

func (r BookingRepository) ListAll() ([]models.Booking, error) {
	return r.list(`ORDER BY booking_date DESC, start_time`)
}

func (r BookingRepository) ListByUser(userID int64) ([]models.Booking, error) {
	return r.list(`WHERE user_id = ? ORDER BY booking_date DESC, start_time`, userID)
}

func (r BookingRepository) ListByOwner(ownerID int64) ([]models.Booking, error) {
	return r.list(`WHERE owner_id = ? ORDER BY booking_date DESC, start_time`, ownerID)
}

func (r BookingRepository) list(tail string, args ...any) ([]models.Booking, error) {
	rows, err := r.db().Query(`SELECT `+bookingColumns+` FROM bookings `+tail, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(
			&b.ID, &b.FieldID, &b.UserID, &b.OwnerID,
			&b.Date, &b.StartTime, &b.EndTime,
			&b.Duration, &b.TotalPrice, &b.PaymentStatus,
		); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Update mutates a booking only while its payment status is pending
// and only onto a slot no other live booking holds. effective is the
// post-update row, used for the overlap check; MySQL cannot subquery
// the table being updated, so the check reads through a derived table.
func (r BookingRepository) Update(id int64, patch models.BookingUpdate, effective models.Booking) error {
	if patch.Empty() {
		return domain.ValidationError{Msg: "no fields to update"}
	}

	sets := []string{}
	args := []any{}
	if patch.Date != nil {
		sets = append(sets, "booking_date=?")
		args = append(args, *patch.Date)
	}
	if patch.StartTime != nil {
		sets = append(sets, "start_time=?")
		args = append(args, *patch.StartTime)
	}
	if patch.EndTime != nil {
		sets = append(sets, "end_time=?")
		args = append(args, *patch.EndTime)
	}
	if patch.Duration != nil {
		sets = append(sets, "duration_hours=?")
		args = append(args, *patch.Duration)
	}
	args = append(args, id, effective.FieldID, effective.Date, id, effective.EndTime, effective.StartTime)

	res, err := r.db().Exec(`
		UPDATE bookings SET `+strings.Join(sets, ", ")+`
		WHERE id = ? AND payment_status = 'pending'
		  AND NOT EXISTS (
			SELECT 1 FROM (
				SELECT id, field_id, booking_date, start_time, end_time, payment_status FROM bookings
			) o
			WHERE o.field_id = ? AND o.booking_date = ?
			  AND o.id <> ? AND o.payment_status <> 'failed'
			  AND o.start_time < ? AND o.end_time > ?
		  )`, args...)
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
	return r.explainBlockedUpdate(id, effective)
}

// explainBlockedUpdate decides why a guarded update touched no rows:
// missing booking, frozen payment status, a held slot, or a no-change
// write (which counts as applied).
func (r BookingRepository) explainBlockedUpdate(id int64, effective models.Booking) error {
	var status string
	err := r.db().QueryRow(`SELECT payment_status FROM bookings WHERE id = ? LIMIT 1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if status != models.BookingPaymentPending {
		return domain.ConflictError{Resource: "booking", Msg: "payment already " + status}
	}

	var clash int
	err = r.db().QueryRow(`
		SELECT COUNT(*) FROM bookings
		WHERE field_id = ? AND booking_date = ?
		  AND id <> ? AND payment_status <> 'failed'
		  AND start_time < ? AND end_time > ?`,
		effective.FieldID, effective.Date, id, effective.EndTime, effective.StartTime,
	).Scan(&clash)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if clash > 0 {
		return domain.ConflictError{Resource: "booking", Msg: "slot already booked"}
	}
	return nil
}

// Delete removes a booking only while pending; a paid booking is
// never hard-deleted.
func (r BookingRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM bookings WHERE id = ? AND payment_status = 'pending'`, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	return r.explainNoEffect(res, id)
}

// MarkPaymentStatus writes a terminal payment status. Called only by
// the reconciliation workflow; no pending guard on purpose.
func (r BookingRepository) MarkPaymentStatus(id int64, status string) error {
	res, err := r.db().Exec(`UPDATE bookings SET payment_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// explainNoEffect distinguishes "missing row" from "row frozen by a
// terminal payment status" after a zero-row conditional write.
func (r BookingRepository) explainNoEffect(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n > 0 {
		return nil
	}
	var status string
	err = r.db().QueryRow(`SELECT payment_status FROM bookings WHERE id = ? LIMIT 1`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if status == models.BookingPaymentPending {
		// MySQL reports zero rows for a no-change update; the row is
		// still mutable so the write counts as applied.
		return nil
	}
	return domain.ConflictError{Resource: "booking", Msg: "payment already " + status}
}
