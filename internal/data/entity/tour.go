package entity

import "github.com/google/uuid"

type Tour struct {
	BaseNoDelete
	DestinationID   uuid.UUID `db:"destination_id"`
	Title           string    `db:"title"`
	Image           *string   `db:"image"`
	PricePerNight   float64   `db:"price_per_night"`
	Description     string    `db:"description"`
	Transport       string    `db:"transport"`
	Hotel           string    `db:"hotel"`
	Activities      string    `db:"activities"`
	IsPromotion     bool      `db:"is_promotion"`
	DiscountPercent int       `db:"discount_percent"`
	// Capacity is the number of persons the tour can host on any night.
	// Zero means unlimited.
	Capacity int `db:"capacity"`
}

// OwnDiscount is the tour's own discount, applied only while it is flagged
// as a promotion.
func (t *Tour) OwnDiscount() int {
	if !t.IsPromotion {
		return 0
	}
	return t.DiscountPercent
}
