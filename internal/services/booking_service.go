package services

import (
	"database/sql"
	"fmt"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/repositories"
	"fieldbook/internal/utils"
)

type BookingService struct {
	BookingRepo repositories.BookingRepository
	FieldRepo   repositories.FieldRepository
	DB          *sql.DB
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) fields() repositories.FieldRepository {
	if s.FieldRepo.DB != nil {
		return s.FieldRepo
	}
	return repositories.FieldRepository{DB: s.db()}
}

// CreateBookingInput is the validated request body for a new booking.
type CreateBookingInput struct {
	FieldID   int64  `json:"field_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
}

func (in CreateBookingInput) Validate() error {
	if in.FieldID <= 0 {
		return domain.ValidationError{Field: "field_id", Msg: "required"}
	}
	if _, err := utils.ParseDate(in.Date); err != nil {
		return domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	start, err := utils.ParseClock(in.StartTime)
	if err != nil {
		return domain.ValidationError{Field: "start_time", Msg: "expected HH:MM", Err: err}
	}
	end, err := utils.ParseClock(in.EndTime)
	if err != nil {
		return domain.ValidationError{Field: "end_time", Msg: "expected HH:MM", Err: err}
	}
	if !end.After(start) {
		return domain.ValidationError{Field: "end_time", Msg: "must be after start_time"}
	}
	if in.Duration <= 0 {
		return domain.ValidationError{Field: "duration", Msg: "must be positive"}
	}
	return nil
}

// CreateBooking resolves the field, snapshots the price and writes the
// pending booking. The total never changes after this point, even if
// the field is repriced later.
func (s BookingService) CreateBooking(userID int64, in CreateBookingInput) (models.Booking, error) {
	if err := in.Validate(); err != nil {
		return models.Booking{}, err
	}

	field, err := s.fields().GetByID(in.FieldID)
	if err != nil {
		return models.Booking{}, err
	}

	booking := models.Booking{
		FieldID:    field.ID,
		UserID:     userID,
		OwnerID:    field.OwnerID,
		Date:       in.Date,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Duration:   in.Duration,
		TotalPrice: field.PricePerHour * float64(in.Duration),
	}
	if err := s.bookings().Create(&booking); err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "booking", "create",
		fmt.Sprintf("booking_id=%d field_id=%d total=%s", booking.ID, field.ID, utils.FormatMoney(booking.TotalPrice)))
	return booking, nil
}

// Availability lists bookings for a field/date; free-slot computation
// is the caller's job.
func (s BookingService) Availability(fieldID int64, date string) ([]models.Booking, error) {
	if fieldID <= 0 {
		return nil, domain.ValidationError{Field: "field_id", Msg: "required"}
	}
	if _, err := utils.ParseDate(date); err != nil {
		return nil, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
	}
	return s.bookings().ListByFieldDate(fieldID, date)
}

func (s BookingService) GetByID(id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid"}
	}
	return s.bookings().GetByID(id)
}

func (s BookingService) ListAll() ([]models.Booking, error) {
	return s.bookings().ListAll()
}

func (s BookingService) ListByUser(userID int64) ([]models.Booking, error) {
	return s.bookings().ListByUser(userID)
}

func (s BookingService) ListByOwner(ownerID int64) ([]models.Booking, error) {
	return s.bookings().ListByOwner(ownerID)
}

// Update patches a pending booking. Only the booker or the field owner
// may touch it; anyone else sees not-found. The patched values pass
// the same clock/ordering checks as creation, and the write carries
// the same overlap guard, so a retimed booking cannot land on a slot
// another booking holds.
func (s BookingService) Update(id, callerID int64, patch models.BookingUpdate) (models.Booking, error) {
	booking, err := s.authorize(id, callerID)
	if err != nil {
		return models.Booking{}, err
	}
	if patch.Date != nil {
		if _, err := utils.ParseDate(*patch.Date); err != nil {
			return models.Booking{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
		}
		booking.Date = *patch.Date
	}
	if patch.StartTime != nil {
		if _, err := utils.ParseClock(*patch.StartTime); err != nil {
			return models.Booking{}, domain.ValidationError{Field: "start_time", Msg: "expected HH:MM", Err: err}
		}
		booking.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		if _, err := utils.ParseClock(*patch.EndTime); err != nil {
			return models.Booking{}, domain.ValidationError{Field: "end_time", Msg: "expected HH:MM", Err: err}
		}
		booking.EndTime = *patch.EndTime
	}
	if patch.Duration != nil {
		if *patch.Duration <= 0 {
			return models.Booking{}, domain.ValidationError{Field: "duration", Msg: "must be positive"}
		}
		booking.Duration = *patch.Duration
	}
	start, err := utils.ParseClock(booking.StartTime)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "start_time", Msg: "expected HH:MM", Err: err}
	}
	end, err := utils.ParseClock(booking.EndTime)
	if err != nil {
		return models.Booking{}, domain.ValidationError{Field: "end_time", Msg: "expected HH:MM", Err: err}
	}
	if !end.After(start) {
		return models.Booking{}, domain.ValidationError{Field: "end_time", Msg: "must be after start_time"}
	}

	if err := s.bookings().Update(booking.ID, patch, booking); err != nil {
		return models.Booking{}, err
	}
	return s.bookings().GetByID(booking.ID)
}

func (s BookingService) Delete(id, callerID int64) error {
	booking, err := s.authorize(id, callerID)
	if err != nil {
		return err
	}
	if err := s.bookings().Delete(booking.ID); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "booking", "delete", fmt.Sprintf("booking_id=%d", booking.ID))
	return nil
}

func (s BookingService) authorize(id, callerID int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid"}
	}
	booking, err := s.bookings().GetByID(id)
	if err != nil {
		return models.Booking{}, err
	}
	if booking.UserID != callerID && booking.OwnerID != callerID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return booking, nil
}
