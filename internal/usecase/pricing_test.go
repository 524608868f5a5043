package usecase

import (
	"testing"

	"travel-agency/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCalculatePrice(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		nights    int
		persons   int
		discount  int
		wantTotal float64
		wantBase  float64
	}{
		{"discounted", 100, 3, 2, 10, 540.00, 600.00},
		{"no discount", 100, 3, 2, 0, 600.00, 600.00},
		{"free", 100, 3, 2, 100, 0, 600.00},
		{"rounds half away from zero", 0.05, 1, 1, 50, 0.03, 0.05},
		{"odd cents", 99.99, 2, 3, 15, 509.95, 599.94},
		{"clamped above 100", 50, 1, 1, 150, 0, 50},
		{"clamped below 0", 50, 1, 1, -5, 50, 50},
		{"zero price", 0, 5, 4, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := CalculatePrice(tt.price, tt.nights, tt.persons, tt.discount)
			assert.Equal(t, tt.wantTotal, q.Total())
			assert.Equal(t, tt.wantBase, q.Base())
		})
	}
}

func TestCalculatePriceIsDeterministic(t *testing.T) {
	a := CalculatePrice(123.45, 7, 3, 12)
	b := CalculatePrice(123.45, 7, 3, 12)
	assert.Equal(t, a, b)
}

func TestQuoteCheck(t *testing.T) {
	// the largest stay and party allowed at the dearest nightly price
	q := CalculatePrice(999999.99, 365, 50, 0)
	assert.Positive(t, q.TotalCents)
	assert.ErrorIs(t, q.Check(), ErrValidation)

	assert.NoError(t, CalculatePrice(99999999.99, 1, 1, 0).Check())
	assert.ErrorIs(t, CalculatePrice(50000000, 1, 2, 0).Check(), ErrValidation)
}

func TestEffectiveDiscount(t *testing.T) {
	tour := &entity.Tour{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, IsPromotion: true, DiscountPercent: 10}
	otherTour := uuid.New()

	assert.Equal(t, 10, EffectiveDiscount(tour, nil))

	promos := []*entity.Promotion{
		{Percent: 15, Active: true, ApplyToAll: true},
		{Percent: 25, Active: true, TourID: &tour.ID},
		{Percent: 50, Active: false, ApplyToAll: true},
		{Percent: 40, Active: true, TourID: &otherTour},
	}
	assert.Equal(t, 25, EffectiveDiscount(tour, promos), "largest applicable discount wins")

	tour.IsPromotion = false
	assert.Equal(t, 15, EffectiveDiscount(tour, promos[:1]), "own discount ignored when not a promotion")
	assert.Equal(t, 0, EffectiveDiscount(tour, nil))
}
