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

type ContentHandler struct {
	service usecase.ContentService
	log     *zap.Logger
}

func NewContentHandler(service usecase.ContentService, log *zap.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		log:     log.With(zap.String("handler", "content")),
	}
}

// ==================== SECTIONS ====================

// GetSections handles GET /api/sections?nav=true
func (h *ContentHandler) GetSections(w http.ResponseWriter, r *http.Request) {
	navOnly, _ := strconv.ParseBool(r.URL.Query().Get("nav"))

	list, err := h.service.GetSections(r.Context(), navOnly)
	if err != nil {
		handleServiceError(w, h.log, err, "get sections")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetSection handles GET /api/sections/{slug}
func (h *ContentHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	sec, err := h.service.GetSectionBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get section")
		return
	}

	utils.ResponseSuccess(w, "success", sec)
}

// CreateSection handles POST /api/admin/sections
func (h *ContentHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req request.SectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sec, err := h.service.CreateSection(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create section")
		return
	}

	utils.ResponseCreated(w, "Section created", sec)
}

// UpdateSection handles PUT /api/admin/sections/{id}
func (h *ContentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	var req request.SectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sec, err := h.service.UpdateSection(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update section")
		return
	}

	utils.ResponseSuccess(w, "Section updated", sec)
}

// DeleteSection handles DELETE /api/admin/sections/{id}
func (h *ContentHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSection(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete section")
		return
	}

	utils.ResponseSuccess(w, "Section deleted", nil)
}

// SetSectionImage handles POST /api/admin/sections/{id}/image
func (h *ContentHandler) SetSectionImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	sec, err := h.service.SetSectionImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "set section image")
		return
	}

	utils.ResponseSuccess(w, "Image uploaded", sec)
}

// ==================== BLOG ====================

// GetPosts handles GET /api/blog
func (h *ContentHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	req := paginated(r)

	list, err := h.service.GetPosts(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get posts")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// GetPost handles GET /api/blog/{slug}
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get post")
		return
	}

	utils.ResponseSuccess(w, "success", post)
}

// CreatePost handles POST /api/admin/blog
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req request.BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create post")
		return
	}

	utils.ResponseCreated(w, "Post created", post)
}

// UpdatePost handles PUT /api/admin/blog/{id}
func (h *ContentHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req request.BlogPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.service.UpdatePost(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update post")
		return
	}

	utils.ResponseSuccess(w, "Post updated", post)
}

// DeletePost handles DELETE /api/admin/blog/{id}
func (h *ContentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete post")
		return
	}

	utils.ResponseSuccess(w, "Post deleted", nil)
}

// SetPostImage handles POST /api/admin/blog/{id}/image
func (h *ContentHandler) SetPostImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	post, err := h.service.SetPostImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "set post image")
		return
	}

	utils.ResponseSuccess(w, "Image uploaded", post)
}

// AddPostGalleryImage handles POST /api/admin/blog/{id}/gallery
func (h *ContentHandler) AddPostGalleryImage(w http.ResponseWriter, r *http.Request) {
	img, done, ok := readImage(w, r)
	if !ok {
		return
	}
	defer done()

	post, err := h.service.AddPostGalleryImage(r.Context(), chi.URLParam(r, "id"), img)
	if err != nil {
		handleServiceError(w, h.log, err, "add post gallery image")
		return
	}

	utils.ResponseCreated(w, "Image added to gallery", post)
}

// ==================== COMMENTS ====================

// GetComments handles GET /api/blog/{slug}/comments
func (h *ContentHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	req := paginated(r)

	list, err := h.service.GetComments(r.Context(), chi.URLParam(r, "slug"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get comments")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// AddComment handles POST /api/blog/{slug}/comments (protected)
func (h *ContentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), userID, chi.URLParam(r, "slug"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add comment")
		return
	}

	utils.ResponseCreated(w, "Comment added", comment)
}

// ==================== CONTACT ====================

type ContactHandler struct {
	service usecase.ContactService
	log     *zap.Logger
}

func NewContactHandler(service usecase.ContactService, log *zap.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		log:     log.With(zap.String("handler", "contact")),
	}
}

// Send handles POST /api/contact
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req request.ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Send(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send contact message")
		return
	}

	utils.ResponseCreated(w, "Message sent", msg)
}

// GetMessages handles GET /api/admin/contact
func (h *ContactHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	req := paginated(r)

	list, err := h.service.GetMessages(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get contact messages")
		return
	}

	utils.ResponseSuccess(w, "success", list)
}
