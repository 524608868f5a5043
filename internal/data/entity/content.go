package entity

import "github.com/google/uuid"

type Section struct {
	BaseNoDelete
	Title     string  `db:"title"`
	Slug      string  `db:"slug"`
	Content   string  `db:"content"`
	Image     *string `db:"image"`
	SortOrder int     `db:"sort_order"`
	ShowInNav bool    `db:"show_in_nav"`
}

type BlogPost struct {
	BaseNoDelete
	Title   string  `db:"title"`
	Slug    string  `db:"slug"`
	Content string  `db:"content"`
	Image   *string `db:"image"`
}

type BlogImage struct {
	BaseSimple
	PostID uuid.UUID `db:"post_id"`
	Image  string    `db:"image"`
}

type BlogComment struct {
	BaseSimple
	PostID   uuid.UUID `db:"post_id"`
	UserID   uuid.UUID `db:"user_id"`
	Username string    `db:"username"` // joined from users
	Content  string    `db:"content"`
}

type ContactMessage struct {
	BaseSimple
	Name    string `db:"name"`
	Email   string `db:"email"`
	Subject string `db:"subject"`
	Message string `db:"message"`
}
