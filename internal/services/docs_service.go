package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	intconfig "fieldbook/internal/config"
	"fieldbook/internal/domain/models"
	"fieldbook/internal/repositories"
	"fieldbook/internal/utils"
)

// DocsService renders booking invoices as PDFs.
type DocsService struct {
	BookingRepo repositories.BookingRepository
	FieldRepo   repositories.FieldRepository
	UserRepo    repositories.UserRepository
	DB          *sql.DB
	RequestID   string
}

func (s DocsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s DocsService) fields() repositories.FieldRepository {
	if s.FieldRepo.DB != nil {
		return s.FieldRepo
	}
	return repositories.FieldRepository{DB: s.db()}
}

func (s DocsService) users() repositories.UserRepository {
	if s.UserRepo.DB != nil {
		return s.UserRepo
	}
	return repositories.UserRepository{DB: s.db()}
}

// GenerateInvoice builds the invoice PDF for a booking.
func (s DocsService) GenerateInvoice(bookingID int64) ([]byte, string, error) {
	booking, err := s.bookings().GetByID(bookingID)
	if err != nil {
		return nil, "", err
	}
	field, err := s.fields().GetByID(booking.FieldID)
	if err != nil {
		return nil, "", err
	}
	booker, err := s.users().GetByID(booking.UserID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "docs", "generate_invoice", fmt.Sprintf("booking_id=%d", bookingID))
	out, err := buildInvoicePDF(booking, field, booker)
	if err != nil {
		return nil, "", err
	}
	return out, fmt.Sprintf("invoice-booking-%d.pdf", bookingID), nil
}

func buildInvoicePDF(b models.Booking, f models.Field, u models.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Booking Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, value, "", 1, "L", false, 0, "")
	}

	line("Invoice No.", fmt.Sprintf("BK-%06d", b.ID))
	line("Issued", utils.FormatDate(time.Now()))
	line("Billed To", u.Name)
	line("Field", f.FieldName)
	line("Address", f.Address)
	line("Date", b.Date)
	line("Time", fmt.Sprintf("%s - %s", b.StartTime, b.EndTime))
	line("Duration", fmt.Sprintf("%d hour(s)", b.Duration))
	line("Rate", "$"+utils.FormatMoney(f.PricePerHour)+" / hour")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	line("Total", "$"+utils.FormatMoney(b.TotalPrice))
	line("Payment Status", b.PaymentStatus)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
