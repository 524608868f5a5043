package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travel-agency/internal/dto/request"
	"travel-agency/internal/dto/response"
	"travel-agency/internal/usecase"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubReservations overrides only the calls a test needs; the embedded nil
// interface panics on anything else.
type stubReservations struct {
	usecase.ReservationService

	createResp *response.CreateReservationResponse
	createErr  error
	gotUser    uuid.UUID

	quoteReq *request.QuoteRequest
	quoteID  string

	webhookPayload   []byte
	webhookSignature string
	webhookErr       error
}

func (s *stubReservations) Create(_ context.Context, userID uuid.UUID, _ *request.CreateReservationRequest) (*response.CreateReservationResponse, error) {
	s.gotUser = userID
	return s.createResp, s.createErr
}

func (s *stubReservations) Quote(_ context.Context, tourID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	s.quoteID, s.quoteReq = tourID, req
	return &response.QuoteResponse{TourID: tourID, NumPersons: req.NumPersons}, nil
}

func (s *stubReservations) HandlePaymentWebhook(_ context.Context, payload []byte, signature string) error {
	s.webhookPayload, s.webhookSignature = payload, signature
	return s.webhookErr
}

type stubDestinations struct {
	usecase.DestinationService

	filename string
	body     string
}

func (s *stubDestinations) SetImage(_ context.Context, destinationID string, img usecase.ImageUpload) (*response.DestinationResponse, error) {
	data, err := io.ReadAll(img.Body)
	if err != nil {
		return nil, err
	}
	s.filename, s.body = img.Filename, string(data)
	return &response.DestinationResponse{ID: destinationID}, nil
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func asUser(r *http.Request, id uuid.UUID) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), id, "customer"))
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"field validation", &usecase.ValidationError{Fields: map[string]string{"email": "This field is required"}}, http.StatusBadRequest},
		{"plain validation", fmt.Errorf("tour id: %w", usecase.ErrValidation), http.StatusBadRequest},
		{"not found", fmt.Errorf("tour x %w", usecase.ErrNotFound), http.StatusNotFound},
		{"conflict", fmt.Errorf("email taken: %w", usecase.ErrConflict), http.StatusConflict},
		{"unauthorized", usecase.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"payment", fmt.Errorf("create intent: %w", usecase.ErrPayment), http.StatusBadGateway},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.code, rec.Code)
			assert.False(t, decode(t, rec).Status)
		})
	}

	t.Run("fields are returned", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleServiceError(rec, zap.NewNop(), &usecase.ValidationError{Fields: map[string]string{"email": "Invalid email format"}}, "test")

		env := decode(t, rec)
		assert.Equal(t, "Validation failed", env.Message)
		assert.Equal(t, map[string]string{"email": "Invalid email format"}, env.Errors)
	})

	t.Run("internal details are hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleServiceError(rec, zap.NewNop(), errors.New("pq: password authentication failed"), "test")

		assert.Equal(t, "Internal server error", decode(t, rec).Message)
	})
}

func TestReservationCreate(t *testing.T) {
	userID := uuid.New()
	body := `{"tour_id":"` + uuid.NewString() + `","start_date":"2026-07-01","end_date":"2026-07-04","num_persons":2,"payment_method":"card"}`

	t.Run("requires a user", func(t *testing.T) {
		h := NewReservationHandler(&stubReservations{}, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Create(rec, httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		h := NewReservationHandler(&stubReservations{}, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Create(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader("{")), userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decode(t, rec).Message)
	})

	t.Run("created", func(t *testing.T) {
		stub := &stubReservations{createResp: &response.CreateReservationResponse{ClientSecret: "pi_secret"}}
		h := NewReservationHandler(stub, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Create(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body)), userID))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, userID, stub.gotUser)
		assert.Contains(t, string(decode(t, rec).Data), "pi_secret")
	})

	t.Run("processor failure keeps the reservation", func(t *testing.T) {
		resID := uuid.NewString()
		stub := &stubReservations{
			createResp: &response.CreateReservationResponse{Reservation: response.ReservationResponse{ID: resID}},
			createErr:  fmt.Errorf("create intent: %w", usecase.ErrPayment),
		}
		h := NewReservationHandler(stub, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Create(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body)), userID))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		env := decode(t, rec)
		assert.False(t, env.Status)
		assert.Contains(t, string(env.Data), resID)
	})

	t.Run("conflict", func(t *testing.T) {
		stub := &stubReservations{createErr: fmt.Errorf("dates taken: %w", usecase.ErrConflict)}
		h := NewReservationHandler(stub, zap.NewNop())
		rec := httptest.NewRecorder()

		h.Create(rec, asUser(httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader(body)), userID))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestTourQuoteReadsQuery(t *testing.T) {
	stub := &stubReservations{}
	h := NewTourHandler(nil, stub, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/tours/{id}/quote", h.Quote)

	tourID := uuid.NewString()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/tours/"+tourID+"/quote?start_date=2026-07-01&end_date=2026-07-05", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tourID, stub.quoteID)
	require.NotNil(t, stub.quoteReq)
	assert.Equal(t, "2026-07-01", stub.quoteReq.StartDate)
	assert.Equal(t, "2026-07-05", stub.quoteReq.EndDate)
	assert.Equal(t, 1, stub.quoteReq.NumPersons)
}

func TestStripeWebhook(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"accepted", nil, http.StatusOK},
		{"bad signature", fmt.Errorf("signature: %w", usecase.ErrValidation), http.StatusBadRequest},
		{"store failure", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubReservations{webhookErr: tt.err}
			h := NewWebhookHandler(stub, zap.NewNop())

			r := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`))
			r.Header.Set("Stripe-Signature", "t=1,v1=abc")
			rec := httptest.NewRecorder()

			h.Stripe(rec, r)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, `{"id":"evt_1"}`, string(stub.webhookPayload))
			assert.Equal(t, "t=1,v1=abc", stub.webhookSignature)
		})
	}
}

func TestReadImage(t *testing.T) {
	stub := &stubDestinations{}
	h := NewDestinationHandler(stub, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/admin/destinations/{id}/image", h.SetImage)

	t.Run("stores the uploaded file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("image", "lisbon.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		destID := uuid.NewString()
		req := httptest.NewRequest(http.MethodPost, "/api/admin/destinations/"+destID+"/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "lisbon.jpg", stub.filename)
		assert.Equal(t, "jpeg bytes", stub.body)
		assert.Contains(t, string(decode(t, rec).Data), destID)
	})

	t.Run("missing file", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("caption", "no file"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/destinations/"+uuid.NewString()+"/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, map[string]string{"image": "This field is required"}, decode(t, rec).Errors)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/destinations/"+uuid.NewString()+"/image", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
