package wire

import (
	"travel-agency/internal/adaptor"
	"travel-agency/internal/data/repository"
	"travel-agency/pkg/middleware"
	"travel-agency/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireContent configures page sections, the blog and the contact form
func wireContent(
	r chi.Router,
	contentHandler *adaptor.ContentHandler,
	contactHandler *adaptor.ContactHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/sections", contentHandler.GetSections) // ?nav=true
	r.Get("/api/sections/{slug}", contentHandler.GetSection)
	r.Get("/api/blog", contentHandler.GetPosts)
	r.Get("/api/blog/{slug}", contentHandler.GetPost)
	r.Get("/api/blog/{slug}/comments", contentHandler.GetComments)
	r.Post("/api/contact", contactHandler.Send)

	// ==================== PROTECTED ROUTES ====================
	r.With(authenticated(repo, log)).Post("/api/blog/{slug}/comments", contentHandler.AddComment)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authenticated(repo, log))
		r.Use(middleware.Admin(log))

		r.Route("/api/admin/sections", func(r chi.Router) {
			r.Post("/", contentHandler.CreateSection)
			r.Put("/{id}", contentHandler.UpdateSection)
			r.Delete("/{id}", contentHandler.DeleteSection)
			r.Post("/{id}/image", contentHandler.SetSectionImage)
		})

		r.Route("/api/admin/blog", func(r chi.Router) {
			r.Post("/", contentHandler.CreatePost)
			r.Put("/{id}", contentHandler.UpdatePost)
			r.Delete("/{id}", contentHandler.DeletePost)
			r.Post("/{id}/image", contentHandler.SetPostImage)
			r.Post("/{id}/gallery", contentHandler.AddPostGalleryImage)
		})

		r.Get("/api/admin/contact", contactHandler.GetMessages)
	})
}
