package request

type DestinationRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description"`
}

type TourRequest struct {
	DestinationID   string  `json:"destination_id" validate:"required,uuid"`
	Title           string  `json:"title" validate:"required,max=200"`
	PricePerNight   float64 `json:"price_per_night" validate:"gte=0,lte=999999.99"`
	Description     string  `json:"description"`
	Transport       string  `json:"transport" validate:"max=255"`
	Hotel           string  `json:"hotel" validate:"max=255"`
	Activities      string  `json:"activities"`
	IsPromotion     bool    `json:"is_promotion"`
	DiscountPercent int     `json:"discount_percent" validate:"gte=0,lte=100"`
	Capacity        int     `json:"capacity" validate:"gte=0"`
}

type TourListRequest struct {
	PaginatedRequest
	DestinationID string `json:"destination_id" validate:"omitempty,uuid"`
	PromotionOnly bool   `json:"promotion_only"`
}

type PromotionRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Percent    int     `json:"percent" validate:"gte=0,lte=100"`
	Active     bool    `json:"active"`
	ApplyToAll bool    `json:"apply_to_all"`
	TourID     *string `json:"tour_id,omitempty" validate:"omitempty,uuid"`
}
