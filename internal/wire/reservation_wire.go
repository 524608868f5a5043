package wire

import (
	"travel-agency/internal/adaptor"
	"travel-agency/internal/data/repository"
	"travel-agency/pkg/middleware"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReservation(
	r chi.Router,
	reservationHandler *adaptor.ReservationHandler,
	webhookHandler *adaptor.WebhookHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))

		r.Post("/api/reservations", reservationHandler.Create)
		r.Get("/api/reservations/{id}", reservationHandler.GetOwn)
		r.Put("/api/reservations/{id}/cancel", reservationHandler.CancelOwn)
		r.Get("/api/user/reservations", reservationHandler.ListOwn)
	})

	// ==================== PROCESSOR CALLBACKS ====================
	// authenticated by signature, not by session
	r.Post("/api/webhooks/stripe", webhookHandler.Stripe)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reservations", func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.Admin(log))

		r.Get("/", reservationHandler.List) // ?status=&page=&per_page=
		r.Get("/{id}", reservationHandler.GetByID)
		r.Put("/{id}/status", reservationHandler.SetStatus)
		r.Put("/{id}/payment", reservationHandler.RecordPayment)
		r.Delete("/{id}", reservationHandler.Delete)
	})
}
