package wire

import (
	"travel-agency/internal/adaptor"
	"travel-agency/internal/data/repository"
	"travel-agency/pkg/middleware"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireCatalog configures destination, tour and promotion routes
func wireCatalog(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	destinations := handler.Destination
	tours := handler.Tour
	promotions := handler.Promotion

	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/destinations", destinations.GetDestinations)
	r.Get("/api/destinations/{id}", destinations.GetDestinationByID)

	r.Get("/api/tours", tours.GetTours) // ?destination_id=&promotion=true&page=&per_page=
	r.Get("/api/tours/{id}", tours.GetTourByID)
	r.Get("/api/tours/{id}/quote", tours.Quote) // ?start_date=&end_date=&num_persons=

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.Admin(log))

		r.Route("/api/admin/destinations", func(r chi.Router) {
			r.Post("/", destinations.CreateDestination)
			r.Put("/{id}", destinations.UpdateDestination)
			r.Delete("/{id}", destinations.DeleteDestination)
			r.Post("/{id}/image", destinations.SetImage)
			r.Post("/{id}/gallery", destinations.AddGalleryImage)
		})

		r.Route("/api/admin/tours", func(r chi.Router) {
			r.Post("/", tours.CreateTour)
			r.Put("/{id}", tours.UpdateTour)
			r.Delete("/{id}", tours.DeleteTour)
			r.Post("/{id}/image", tours.SetImage)
		})

		r.Route("/api/admin/promotions", func(r chi.Router) {
			r.Get("/", promotions.GetPromotions)
			r.Post("/", promotions.CreatePromotion)
			r.Get("/{id}", promotions.GetPromotionByID)
			r.Put("/{id}", promotions.UpdatePromotion)
			r.Delete("/{id}", promotions.DeletePromotion)
		})
	})
}
