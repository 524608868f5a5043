package response

import (
	"time"

	"travel-agency/internal/data/entity"
)

const dateLayout = "2006-01-02"

type ReservationResponse struct {
	ID              string                   `json:"id"`
	UserID          string                   `json:"user_id"`
	TourID          string                   `json:"tour_id"`
	TourTitle       string                   `json:"tour_title,omitempty"`
	StartDate       string                   `json:"start_date"`
	EndDate         string                   `json:"end_date"`
	Nights          int                      `json:"nights"`
	NumPersons      int                      `json:"num_persons"`
	TotalPrice      float64                  `json:"total_price"`
	BookingForOther bool                     `json:"booking_for_other"`
	GuestFullName   string                   `json:"guest_full_name,omitempty"`
	GuestPhone      string                   `json:"guest_phone,omitempty"`
	Status          entity.ReservationStatus `json:"status"`
	PaymentMethod   entity.PaymentMethod     `json:"payment_method"`
	PaymentStatus   entity.PaymentStatus     `json:"payment_status"`
	PaymentRef      *string                  `json:"payment_reference,omitempty"`
	AdminNote       string                   `json:"admin_note,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// CreateReservationResponse carries the client secret the browser needs to
// confirm a card payment. It is empty for cash reservations.
type CreateReservationResponse struct {
	Reservation  ReservationResponse `json:"reservation"`
	ClientSecret string              `json:"client_secret,omitempty"`
}

type QuoteResponse struct {
	TourID          string  `json:"tour_id"`
	Nights          int     `json:"nights"`
	NumPersons      int     `json:"num_persons"`
	PricePerNight   float64 `json:"price_per_night"`
	BasePrice       float64 `json:"base_price"`
	DiscountPercent int     `json:"discount_percent"`
	TotalPrice      float64 `json:"total_price"`
}

func ReservationToResponse(r *entity.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID.String(),
		UserID:          r.UserID.String(),
		TourID:          r.TourID.String(),
		TourTitle:       r.TourTitle,
		StartDate:       r.StartDate.Format(dateLayout),
		EndDate:         r.EndDate.Format(dateLayout),
		Nights:          r.Nights(),
		NumPersons:      r.NumPersons,
		TotalPrice:      r.TotalPrice,
		BookingForOther: r.BookingForOther,
		GuestFullName:   r.GuestFullName,
		GuestPhone:      r.GuestPhone,
		Status:          r.Status,
		PaymentMethod:   r.PaymentMethod,
		PaymentStatus:   r.PaymentStatus,
		PaymentRef:      r.PaymentRef,
		AdminNote:       r.AdminNote,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func ReservationsToResponse(list []*entity.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(list))
	for _, r := range list {
		out = append(out, ReservationToResponse(r))
	}
	return out
}
