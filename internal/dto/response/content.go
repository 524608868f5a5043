package response

import (
	"time"

	"travel-agency/internal/data/entity"
)

type SectionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	Image     *string   `json:"image,omitempty"`
	SortOrder int       `json:"sort_order"`
	ShowInNav bool      `json:"show_in_nav"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlogPostResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content,omitempty"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BlogPostDetailResponse struct {
	BlogPostResponse
	Gallery []string `json:"gallery"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactMessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func SectionToResponse(s *entity.Section) SectionResponse {
	return SectionResponse{
		ID:        s.ID.String(),
		Title:     s.Title,
		Slug:      s.Slug,
		Content:   s.Content,
		Image:     s.Image,
		SortOrder: s.SortOrder,
		ShowInNav: s.ShowInNav,
		UpdatedAt: s.UpdatedAt,
	}
}

func BlogPostToResponse(p *entity.BlogPost) BlogPostResponse {
	return BlogPostResponse{
		ID:        p.ID.String(),
		Title:     p.Title,
		Slug:      p.Slug,
		Content:   p.Content,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
	}
}

func CommentToResponse(c *entity.BlogComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		UserID:    c.UserID.String(),
		Username:  c.Username,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func ContactToResponse(m *entity.ContactMessage) ContactMessageResponse {
	return ContactMessageResponse{
		ID:        m.ID.String(),
		Name:      m.Name,
		Email:     m.Email,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}
