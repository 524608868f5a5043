package request

// DateLayout is the wire format of reservation dates.
const DateLayout = "2006-01-02"

// Upper bounds of a single booking.
const (
	MaxNumPersons = 50
	MaxStayNights = 365
)

type CreateReservationRequest struct {
	TourID          string `json:"tour_id" validate:"required,uuid"`
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	NumPersons      int    `json:"num_persons" validate:"gte=1,lte=50"`
	PaymentMethod   string `json:"payment_method" validate:"required,oneof=cash card"`
	BookingForOther bool   `json:"booking_for_other"`
	GuestFullName   string `json:"guest_full_name" validate:"required_if=BookingForOther true,max=150"`
	GuestPhone      string `json:"guest_phone" validate:"max=30"`
}

type QuoteRequest struct {
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	NumPersons int    `json:"num_persons" validate:"gte=1,lte=50"`
}

type UpdateReservationStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending booked rejected cancelled"`
	AdminNote string `json:"admin_note" validate:"max=2000"`
}

type RecordPaymentRequest struct {
	Reference string `json:"reference" validate:"required,max=255"`
	Succeeded *bool  `json:"succeeded" validate:"required"`
}

type ListReservationsRequest struct {
	PaginatedRequest
	Status string `json:"status" validate:"omitempty,oneof=pending booked rejected cancelled"`
}
