package usecase

import (
	"fmt"
	"math"

	"travel-agency/internal/data/entity"
)

// Quote is a price breakdown. All money is held in cents so identical inputs
// always produce the same total.
type Quote struct {
	Nights          int
	NumPersons      int
	PriceCents      int64
	BaseCents       int64
	DiscountPercent int
	TotalCents      int64
}

func (q Quote) Total() float64 { return centsToAmount(q.TotalCents) }
func (q Quote) Base() float64  { return centsToAmount(q.BaseCents) }

// maxTotalCents is the largest total a reservation row can store.
const maxTotalCents int64 = 9_999_999_999

// Check rejects a total that cannot be stored or charged.
func (q Quote) Check() error {
	if q.TotalCents > maxTotalCents {
		return fieldError("num_persons", fmt.Sprintf("Total price cannot exceed %.2f", centsToAmount(maxTotalCents)))
	}
	return nil
}

// EffectiveDiscount picks the single largest discount that applies to the
// tour. Discounts never stack.
func EffectiveDiscount(tour *entity.Tour, promotions []*entity.Promotion) int {
	best := tour.OwnDiscount()
	for _, p := range promotions {
		if p.AppliesTo(tour.ID) && p.Percent > best {
			best = p.Percent
		}
	}
	return clampPercent(best)
}

// CalculatePrice computes price_per_night x nights x persons minus the
// discount, rounded half away from zero to the cent.
func CalculatePrice(pricePerNight float64, nights, persons, discount int) Quote {
	discount = clampPercent(discount)
	priceCents := amountToCents(pricePerNight)
	base := priceCents * int64(nights) * int64(persons)

	return Quote{
		Nights:          nights,
		NumPersons:      persons,
		PriceCents:      priceCents,
		BaseCents:       base,
		DiscountPercent: discount,
		TotalCents:      divRound(base*int64(100-discount), 100),
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func amountToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}

// divRound divides rounding half away from zero.
func divRound(num, den int64) int64 {
	if num < 0 {
		return -divRound(-num, den)
	}
	return (num + den/2) / den
}
