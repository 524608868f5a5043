package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const metadataReservationID = "reservation_id"

type Stripe struct {
	client        *stripe.Client
	webhookSecret string
	currency      string
	log           *zap.Logger
}

func NewStripe(config utils.StripeConfig, log *zap.Logger) *Stripe {
	return &Stripe{
		client:        stripe.NewClient(config.SecretKey),
		webhookSecret: config.WebhookSecret,
		currency:      config.Currency,
		log:           log.With(zap.String("payment", "stripe")),
	}
}

func (s *Stripe) Name() string { return "stripe" }

func (s *Stripe) CreateIntent(ctx context.Context, reservationID uuid.UUID, amountCents int64) (*Intent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(s.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata(metadataReservationID, reservationID.String())

	pi, err := s.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		s.log.Error("Failed to create payment intent",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
			zap.Int64("amount", amountCents),
		)
		return nil, fmt.Errorf("create payment intent for reservation %s: %w", reservationID.String(), err)
	}

	s.log.Info("Payment intent created",
		zap.String("payment_intent", pi.ID),
		zap.String("reservation_id", reservationID.String()),
	)

	return &Intent{Reference: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Result, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.log.Warn("Error verifying webhook signature", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var succeeded bool
	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		succeeded = true
	case stripe.EventTypePaymentIntentPaymentFailed:
		succeeded = false
	default:
		s.log.Debug("Ignoring stripe event", zap.String("type", string(event.Type)))
		return nil, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("parse payment intent: %w", err)
	}

	reservationID, err := uuid.Parse(pi.Metadata[metadataReservationID])
	if err != nil {
		s.log.Warn("Payment intent has no valid reservation metadata",
			zap.String("payment_intent", pi.ID),
			zap.Error(err),
		)
		reservationID = uuid.Nil
	}

	return &Result{
		Reference:     pi.ID,
		ReservationID: reservationID,
		Succeeded:     succeeded,
	}, nil
}
