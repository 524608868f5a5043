package adaptor

import (
	"errors"
	"net/http"

	"travel-agency/internal/dto/request"
	"travel-agency/internal/usecase"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// Create handles POST /api/reservations (protected)
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateReservationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		// the reservation exists, only the processor reference is missing
		if resp != nil && errors.Is(err, usecase.ErrPayment) {
			h.log.Error("Reservation created without payment reference", zap.Error(err))
			utils.ResponseJSON(w, http.StatusBadGateway, false,
				"Reservation created but the payment could not be started", resp, nil)
			return
		}
		handleServiceError(w, h.log, err, "create reservation")
		return
	}

	utils.ResponseCreated(w, "Reservation created", resp)
}

// ListOwn handles GET /api/user/reservations (protected)
func (h *ReservationHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := paginated(r)
	list, err := h.service.ListByUser(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list user reservations")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetOwn handles GET /api/reservations/{id} (protected, owner only)
func (h *ReservationHandler) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	res, err := h.service.GetOwn(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", res)
}

// CancelOwn handles PUT /api/reservations/{id}/cancel (protected, owner only)
func (h *ReservationHandler) CancelOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	res, err := h.service.CancelOwn(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation cancelled", res)
}

// ==================== ADMIN METHODS ====================

// List handles GET /api/admin/reservations?status= (admin only)
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	req := request.ListReservationsRequest{
		PaginatedRequest: paginated(r),
		Status:           r.URL.Query().Get("status"),
	}

	list, err := h.service.List(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list reservations")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetByID handles GET /api/admin/reservations/{id} (admin only)
func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get reservation by ID")
		return
	}

	utils.ResponseSuccess(w, "success", res)
}

// SetStatus handles PUT /api/admin/reservations/{id}/status (admin only)
func (h *ReservationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReservationStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.SetStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set reservation status")
		return
	}

	utils.ResponseSuccess(w, "Reservation status updated", res)
}

// RecordPayment handles PUT /api/admin/reservations/{id}/payment (admin only)
func (h *ReservationHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req request.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.RecordPayment(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "record payment")
		return
	}

	utils.ResponseSuccess(w, "Payment recorded", res)
}

// Delete handles DELETE /api/admin/reservations/{id} (admin only)
func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete reservation")
		return
	}

	utils.ResponseSuccess(w, "Reservation deleted", nil)
}
