package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusRejected  ReservationStatus = "rejected"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusBooked,
		ReservationStatusRejected, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusBooked ||
		s == ReservationStatusRejected ||
		s == ReservationStatusCancelled
}

// IsActive reports whether the reservation still occupies tour capacity.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusPending || s == ReservationStatusBooked
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

// CanMoveTo: unpaid -> paid|failed, failed -> paid. Paid is final.
func (p PaymentStatus) CanMoveTo(next PaymentStatus) bool {
	switch p {
	case PaymentStatusUnpaid:
		return next == PaymentStatusPaid || next == PaymentStatusFailed
	case PaymentStatusFailed:
		return next == PaymentStatusPaid
	}
	return false
}

type Reservation struct {
	BaseNoDelete
	UserID          uuid.UUID         `db:"user_id"`
	TourID          uuid.UUID         `db:"tour_id"`
	StartDate       time.Time         `db:"start_date"`
	EndDate         time.Time         `db:"end_date"`
	NumPersons      int               `db:"num_persons"`
	TotalPrice      float64           `db:"total_price"`
	BookingForOther bool              `db:"booking_for_other"`
	GuestFullName   string            `db:"guest_full_name"`
	GuestPhone      string            `db:"guest_phone"`
	Status          ReservationStatus `db:"status"`
	PaymentMethod   PaymentMethod     `db:"payment_method"`
	PaymentStatus   PaymentStatus     `db:"payment_status"`
	PaymentRef      *string           `db:"stripe_payment_intent"`
	AdminNote       string            `db:"admin_note"`
	TourTitle       string            `db:"tour_title"` // joined from tours
}

// Nights is the number of calendar days between start and end, never negative.
func (r *Reservation) Nights() int {
	return Nights(r.StartDate, r.EndDate)
}

// Nights counts whole calendar days from start to end, ignoring the clock
// and zone of either value. A reversed range yields zero.
func Nights(start, end time.Time) int {
	n := dayNumber(end) - dayNumber(start)
	if n < 0 {
		return 0
	}
	return int(n)
}

// dayNumber is the count of days since the Unix epoch for t's calendar date.
// Midnight UTC is always a whole multiple of a day, so the division is exact.
func dayNumber(t time.Time) int64 {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// AppendNote adds a line to the operator note.
func (r *Reservation) AppendNote(note string) {
	if note == "" {
		return
	}
	if r.AdminNote == "" {
		r.AdminNote = note
		return
	}
	r.AdminNote += "\n" + note
}
