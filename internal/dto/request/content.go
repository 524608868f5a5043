package request

type SectionRequest struct {
	Title     string `json:"title" validate:"required,max=120"`
	Slug      string `json:"slug" validate:"omitempty,max=120"`
	Content   string `json:"content"`
	SortOrder int    `json:"sort_order"`
	ShowInNav *bool  `json:"show_in_nav"`
}

type BlogPostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Slug    string `json:"slug" validate:"omitempty,max=200"`
	Content string `json:"content" validate:"required"`
}

type CommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=150"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}
