package entity

import "github.com/google/uuid"

type Destination struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Image       *string `db:"image"`
	Description string  `db:"description"`
}

type DestinationImage struct {
	BaseSimple
	DestinationID uuid.UUID `db:"destination_id"`
	Image         string    `db:"image"`
}
