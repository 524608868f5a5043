// Package payment talks to the card processor. Reservations only ever see
// an opaque reference and, for the browser, a client secret.
package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature is returned when a webhook payload fails verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrWebhookDisabled is returned by processors that receive no callbacks.
	ErrWebhookDisabled = errors.New("webhooks are not enabled")
)

// Intent is a processor-side payment created for one reservation.
type Intent struct {
	Reference    string
	ClientSecret string
}

// Result is the outcome of a charge, decoded from a verified webhook.
// ReservationID is uuid.Nil when the charge carries no usable reservation
// metadata; the Reference then identifies it.
type Result struct {
	Reference     string
	ReservationID uuid.UUID
	Succeeded     bool
}

type Processor interface {
	Name() string
	// CreateIntent returns nil when the processor does not collect card
	// payments online.
	CreateIntent(ctx context.Context, reservationID uuid.UUID, amountCents int64) (*Intent, error)
	// ParseWebhook verifies and decodes a callback. A nil Result with a nil
	// error means the event is not about a payment outcome.
	ParseWebhook(payload []byte, signature string) (*Result, error)
}

// Manual is used when no processor key is configured. Operators record
// card payments by hand.
type Manual struct{}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Name() string { return "manual" }

func (m *Manual) CreateIntent(context.Context, uuid.UUID, int64) (*Intent, error) {
	return nil, nil
}

func (m *Manual) ParseWebhook([]byte, string) (*Result, error) {
	return nil, ErrWebhookDisabled
}
