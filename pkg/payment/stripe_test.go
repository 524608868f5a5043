package payment

import (
	"fmt"
	"testing"

	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const testSecret = "whsec_test_secret"

func newTestStripe() *Stripe {
	return NewStripe(utils.StripeConfig{
		SecretKey:     "sk_test_123",
		WebhookSecret: testSecret,
		Currency:      "eur",
	}, zap.NewNop())
}

func signedEvent(t *testing.T, eventType, metadata string) ([]byte, string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": %q,
		"type": %q,
		"data": {"object": {"id": "pi_123", "object": "payment_intent", "metadata": %s}}
	}`, stripe.APIVersion, eventType, metadata))

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  testSecret,
	})
	return signed.Payload, signed.Header
}

func TestStripeParseWebhookSucceeded(t *testing.T) {
	reservationID := uuid.New()
	payload, sig := signedEvent(t, "payment_intent.succeeded",
		fmt.Sprintf(`{"reservation_id": %q}`, reservationID.String()))

	result, err := newTestStripe().ParseWebhook(payload, sig)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "pi_123", result.Reference)
	assert.Equal(t, reservationID, result.ReservationID)
	assert.True(t, result.Succeeded)
}

func TestStripeParseWebhookFailed(t *testing.T) {
	reservationID := uuid.New()
	payload, sig := signedEvent(t, "payment_intent.payment_failed",
		fmt.Sprintf(`{"reservation_id": %q}`, reservationID.String()))

	result, err := newTestStripe().ParseWebhook(payload, sig)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Succeeded)
}

func TestStripeParseWebhookIgnoresOtherEvents(t *testing.T) {
	payload, sig := signedEvent(t, "customer.created", `{}`)

	result, err := newTestStripe().ParseWebhook(payload, sig)
	assert.NoError(t, err)
	assert.Nil(t, result)
}

func TestStripeParseWebhookBadSignature(t *testing.T) {
	payload, _ := signedEvent(t, "payment_intent.succeeded", `{}`)

	_, err := newTestStripe().ParseWebhook(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestStripeParseWebhookMissingReservation(t *testing.T) {
	for _, metadata := range []string{`{}`, `{"reservation_id": "not-a-uuid"}`} {
		payload, sig := signedEvent(t, "payment_intent.succeeded", metadata)

		result, err := newTestStripe().ParseWebhook(payload, sig)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, uuid.Nil, result.ReservationID)
		assert.Equal(t, "pi_123", result.Reference)
	}
}

func TestStripeParseWebhookUndecodableIntent(t *testing.T) {
	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"object": "event",
		"api_version": %q,
		"type": "payment_intent.succeeded",
		"data": {"object": {"id": 42, "object": "payment_intent"}}
	}`, stripe.APIVersion))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: testSecret})

	_, err := newTestStripe().ParseWebhook(signed.Payload, signed.Header)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSignature)
}

func TestManualProcessor(t *testing.T) {
	m := NewManual()

	intent, err := m.CreateIntent(t.Context(), uuid.New(), 1000)
	assert.NoError(t, err)
	assert.Nil(t, intent)

	_, err = m.ParseWebhook(nil, "")
	assert.ErrorIs(t, err, ErrWebhookDisabled)
}
