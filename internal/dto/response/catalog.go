package response

import (
	"time"

	"travel-agency/internal/data/entity"
)

type DestinationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Image       *string   `json:"image,omitempty"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type DestinationDetailResponse struct {
	DestinationResponse
	Gallery []string       `json:"gallery"`
	Tours   []TourResponse `json:"tours"`
}

type TourResponse struct {
	ID              string    `json:"id"`
	DestinationID   string    `json:"destination_id"`
	Title           string    `json:"title"`
	Image           *string   `json:"image,omitempty"`
	PricePerNight   float64   `json:"price_per_night"`
	Description     string    `json:"description"`
	Transport       string    `json:"transport"`
	Hotel           string    `json:"hotel"`
	Activities      string    `json:"activities"`
	IsPromotion     bool      `json:"is_promotion"`
	DiscountPercent int       `json:"discount_percent"`
	Capacity        int       `json:"capacity"`
	CreatedAt       time.Time `json:"created_at"`
}

// TourDetailResponse adds the discount a booking made now would get.
type TourDetailResponse struct {
	TourResponse
	EffectiveDiscount int `json:"effective_discount"`
}

type PromotionResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Percent    int       `json:"percent"`
	Active     bool      `json:"active"`
	ApplyToAll bool      `json:"apply_to_all"`
	TourID     *string   `json:"tour_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func DestinationToResponse(d *entity.Destination) DestinationResponse {
	return DestinationResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Image:       d.Image,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

func TourToResponse(t *entity.Tour) TourResponse {
	return TourResponse{
		ID:              t.ID.String(),
		DestinationID:   t.DestinationID.String(),
		Title:           t.Title,
		Image:           t.Image,
		PricePerNight:   t.PricePerNight,
		Description:     t.Description,
		Transport:       t.Transport,
		Hotel:           t.Hotel,
		Activities:      t.Activities,
		IsPromotion:     t.IsPromotion,
		DiscountPercent: t.DiscountPercent,
		Capacity:        t.Capacity,
		CreatedAt:       t.CreatedAt,
	}
}

func ToursToResponse(list []*entity.Tour) []TourResponse {
	out := make([]TourResponse, 0, len(list))
	for _, t := range list {
		out = append(out, TourToResponse(t))
	}
	return out
}

func PromotionToResponse(p *entity.Promotion) PromotionResponse {
	resp := PromotionResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Percent:    p.Percent,
		Active:     p.Active,
		ApplyToAll: p.ApplyToAll,
		CreatedAt:  p.CreatedAt,
	}
	if p.TourID != nil {
		id := p.TourID.String()
		resp.TourID = &id
	}
	return resp
}
