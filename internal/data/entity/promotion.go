package entity

import "github.com/google/uuid"

type Promotion struct {
	BaseNoDelete
	Name       string     `db:"name"`
	Percent    int        `db:"percent"`
	Active     bool       `db:"active"`
	ApplyToAll bool       `db:"apply_to_all"`
	TourID     *uuid.UUID `db:"tour_id"`
}

// AppliesTo reports whether an active promotion covers the given tour.
func (p *Promotion) AppliesTo(tourID uuid.UUID) bool {
	if !p.Active {
		return false
	}
	if p.ApplyToAll {
		return true
	}
	return p.TourID != nil && *p.TourID == tourID
}
