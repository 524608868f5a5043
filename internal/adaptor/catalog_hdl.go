package adaptor

import (
	"net/http"
	"strconv"

	"travel-agency/internal/dto/request"
	"travel-agency/internal/usecase"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ==================== DESTINATIONS ====================

type DestinationHandler struct {
	service usecase.DestinationService
	log     *zap.Logger
}

func NewDestinationHandler(service usecase.DestinationService, log *zap.Logger) *DestinationHandler {
	return &DestinationHandler{
		service: service,
		log:     log.With(zap.String("handler", "destination")),
	}
}

// GetDestinations handles GET /api/destinations
func (h *DestinationHandler) GetDestinations(w http.ResponseWriter, r *http.Request) {
	req := paginated(r)

	list, err := h.service.GetDestinations(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get destinations")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetDestinationByID handles GET /api/destinations/{id}
func (h *DestinationHandler) GetDestinationByID(w http.ResponseWriter, r *http.Request) {
	dest, err := h.service.GetDestinationByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get destination")
		return
	}

	utils.ResponseSuccess(w, "success", dest)
}

// CreateDestination handles POST /api/admin/destinations
func (h *DestinationHandler) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var req request.DestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dest, err := h.service.CreateDestination(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create destination")
		return
	}

	utils.ResponseCreated(w, "Destination created", dest)
}

// UpdateDestination handles PUT /api/admin/destinations/{id}
func (h *DestinationHandler) UpdateDestination(w http.ResponseWriter, r *http.Request) {
	var req request.DestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dest, err := h.service.UpdateDestination(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update destination")
		return
	}

	utils.ResponseSuccess(w, "Destination updated", dest)
}

// DeleteDestination handles DELETE /api/admin/destinations/{id}
func (h *DestinationHandler) DeleteDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteDestination(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete destination")
		return
	}

	utils.ResponseSuccess(w, "Destination deleted", nil)
}

// SetImage handles POST /api/admin/destinations/{id}/image
func (h *DestinationHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	dest, err := h.service.SetImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "set destination image")
		return
	}

	utils.ResponseSuccess(w, "Image uploaded", dest)
}

// AddGalleryImage handles POST /api/admin/destinations/{id}/gallery
func (h *DestinationHandler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	dest, err := h.service.AddGalleryImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "add destination gallery image")
		return
	}

	utils.ResponseCreated(w, "Image added to gallery", dest)
}

// ==================== TOURS ====================

type TourHandler struct {
	service      usecase.TourService
	reservations usecase.ReservationService
	log          *zap.Logger
}

func NewTourHandler(service usecase.TourService, reservations usecase.ReservationService, log *zap.Logger) *TourHandler {
	return &TourHandler{
		service:      service,
		reservations: reservations,
		log:          log.With(zap.String("handler", "tour")),
	}
}

// GetTours handles GET /api/tours?destination_id=&promotion=true
func (h *TourHandler) GetTours(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	promotionOnly, _ := strconv.ParseBool(query.Get("promotion"))

	req := request.TourListRequest{
		PaginatedRequest: paginated(r),
		DestinationID:    query.Get("destination_id"),
		PromotionOnly:    promotionOnly,
	}

	tours, err := h.service.GetTours(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get tours")
		return
	}

	utils.ResponseSuccess(w, "success", tours)
}

// GetTourByID handles GET /api/tours/{id}
func (h *TourHandler) GetTourByID(w http.ResponseWriter, r *http.Request) {
	tour, err := h.service.GetTourByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get tour")
		return
	}

	utils.ResponseSuccess(w, "success", tour)
}

// Quote handles GET /api/tours/{id}/quote?start_date=&end_date=&num_persons=
func (h *TourHandler) Quote(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.QuoteRequest{
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		NumPersons: utils.ParseInt(query.Get("num_persons"), 1),
	}

	quote, err := h.reservations.Quote(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "quote tour")
		return
	}

	utils.ResponseSuccess(w, "success", quote)
}

// CreateTour handles POST /api/admin/tours
func (h *TourHandler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req request.TourRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tour, err := h.service.CreateTour(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create tour")
		return
	}

	utils.ResponseCreated(w, "Tour created", tour)
}

// UpdateTour handles PUT /api/admin/tours/{id}
func (h *TourHandler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	var req request.TourRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tour, err := h.service.UpdateTour(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update tour")
		return
	}

	utils.ResponseSuccess(w, "Tour updated", tour)
}

// DeleteTour handles DELETE /api/admin/tours/{id}
func (h *TourHandler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTour(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete tour")
		return
	}

	utils.ResponseSuccess(w, "Tour deleted", nil)
}

// SetImage handles POST /api/admin/tours/{id}/image
func (h *TourHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	tour, err := h.service.SetImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "set tour image")
		return
	}

	utils.ResponseSuccess(w, "Image uploaded", tour)
}

// ==================== PROMOTIONS ====================

type PromotionHandler struct {
	service usecase.PromotionService
	log     *zap.Logger
}

func NewPromotionHandler(service usecase.PromotionService, log *zap.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		log:     log.With(zap.String("handler", "promotion")),
	}
}

// GetPromotions handles GET /api/admin/promotions
func (h *PromotionHandler) GetPromotions(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetPromotions(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get promotions")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetPromotionByID handles GET /api/admin/promotions/{id}
func (h *PromotionHandler) GetPromotionByID(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetPromotionByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get promotion")
		return
	}

	utils.ResponseSuccess(w, "success", p)
}

// CreatePromotion handles POST /api/admin/promotions
func (h *PromotionHandler) CreatePromotion(w http.ResponseWriter, r *http.Request) {
	var req request.PromotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.CreatePromotion(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create promotion")
		return
	}

	utils.ResponseCreated(w, "Promotion created", p)
}

// UpdatePromotion handles PUT /api/admin/promotions/{id}
func (h *PromotionHandler) UpdatePromotion(w http.ResponseWriter, r *http.Request) {
	var req request.PromotionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.service.UpdatePromotion(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update promotion")
		return
	}

	utils.ResponseSuccess(w, "Promotion updated", p)
}

// DeletePromotion handles DELETE /api/admin/promotions/{id}
func (h *PromotionHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePromotion(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete promotion")
		return
	}

	utils.ResponseSuccess(w, "Promotion deleted", nil)
}
