package repository

import (
	"context"
	"fmt"

	"travel-agency/internal/data/entity"
	"travel-agency/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ==================== POSTS ====================

type BlogPostRepository interface {
	Create(ctx context.Context, post *entity.BlogPost) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *entity.BlogPost) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type blogPostRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBlogPostRepository(db database.Querier, log *zap.Logger) BlogPostRepository {
	return &blogPostRepository{
		db:  db,
		log: log.With(zap.String("repository", "blog_post")),
	}
}

const blogPostColumns = `id, title, slug, content, image, created_at, updated_at`

func scanBlogPost(row pgx.Row) (*entity.BlogPost, error) {
	var p entity.BlogPost
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Image, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *blogPostRepository) Create(ctx context.Context, p *entity.BlogPost) error {
	query := `
		INSERT INTO blog_posts (id, title, slug, content, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.Image, p.CreatedAt, p.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("create blog post %s: %w", p.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create blog post",
			zap.Error(err),
			zap.String("slug", p.Slug),
		)
		return fmt.Errorf("create blog post %s: %w", p.Slug, err)
	}

	return nil
}

func (r *blogPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *blogPostRepository) FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

func (r *blogPostRepository) findOne(ctx context.Context, where string, arg any) (*entity.BlogPost, error) {
	query := `SELECT ` + blogPostColumns + ` FROM blog_posts WHERE ` + where

	p, err := scanBlogPost(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find blog post",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("find blog post %v: %w", arg, err)
	}

	return p, nil
}

func (r *blogPostRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.BlogPost, error) {
	query := `
		SELECT ` + blogPostColumns + `
		FROM blog_posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get blog posts", zap.Error(err))
		return nil, fmt.Errorf("find blog posts: %w", err)
	}
	defer rows.Close()

	var posts []*entity.BlogPost
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post row: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (r *blogPostRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&count); err != nil {
		r.log.Error("Failed to count blog posts", zap.Error(err))
		return 0, fmt.Errorf("count blog posts: %w", err)
	}
	return count, nil
}

func (r *blogPostRepository) Update(ctx context.Context, p *entity.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, content = $4, image = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, p.ID, p.Title, p.Slug, p.Content, p.Image, p.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("update blog post %s: %w", p.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update blog post",
			zap.Error(err),
			zap.String("post_id", p.ID.String()),
		)
		return fmt.Errorf("update blog post %s: %w", p.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("blog post %s not found", p.ID.String())
	}

	return nil
}

func (r *blogPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete blog post",
			zap.Error(err),
			zap.String("post_id", id.String()),
		)
		return fmt.Errorf("delete blog post %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("blog post %s not found", id.String())
	}

	return nil
}

// ==================== IMAGES ====================

type BlogImageRepository interface {
	Create(ctx context.Context, image *entity.BlogImage) error
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]*entity.BlogImage, error)
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
}

type blogImageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBlogImageRepository(db database.Querier, log *zap.Logger) BlogImageRepository {
	return &blogImageRepository{
		db:  db,
		log: log.With(zap.String("repository", "blog_image")),
	}
}

func (r *blogImageRepository) Create(ctx context.Context, img *entity.BlogImage) error {
	query := `INSERT INTO blog_images (id, post_id, image, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.db.Exec(ctx, query, img.ID, img.PostID, img.Image, img.CreatedAt); err != nil {
		r.log.Error("Failed to create blog image",
			zap.Error(err),
			zap.String("post_id", img.PostID.String()),
		)
		return fmt.Errorf("create image for post %s: %w", img.PostID.String(), err)
	}

	return nil
}

func (r *blogImageRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]*entity.BlogImage, error) {
	query := `
		SELECT id, post_id, image, created_at
		FROM blog_images
		WHERE post_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		r.log.Error("Failed to get blog images",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return nil, fmt.Errorf("find images of post %s: %w", postID.String(), err)
	}
	defer rows.Close()

	var images []*entity.BlogImage
	for rows.Next() {
		var img entity.BlogImage
		if err := rows.Scan(&img.ID, &img.PostID, &img.Image, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan blog image row: %w", err)
		}
		images = append(images, &img)
	}

	return images, rows.Err()
}

func (r *blogImageRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM blog_images WHERE post_id = $1`, postID); err != nil {
		r.log.Error("Failed to delete blog images",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return fmt.Errorf("delete images of post %s: %w", postID.String(), err)
	}
	return nil
}

// ==================== COMMENTS ====================

type BlogCommentRepository interface {
	Create(ctx context.Context, comment *entity.BlogComment) error
	FindByPostID(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.BlogComment, error)
	CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error)
	DeleteByPostID(ctx context.Context, postID uuid.UUID) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type blogCommentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBlogCommentRepository(db database.Querier, log *zap.Logger) BlogCommentRepository {
	return &blogCommentRepository{
		db:  db,
		log: log.With(zap.String("repository", "blog_comment")),
	}
}

func (r *blogCommentRepository) Create(ctx context.Context, c *entity.BlogComment) error {
	query := `
		INSERT INTO blog_comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(ctx, query, c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt); err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("post_id", c.PostID.String()),
			zap.String("user_id", c.UserID.String()),
		)
		return fmt.Errorf("create comment on post %s: %w", c.PostID.String(), err)
	}

	return nil
}

// FindByPostID lists comments newest first, with the author's username.
func (r *blogCommentRepository) FindByPostID(ctx context.Context, postID uuid.UUID, limit, offset int) ([]*entity.BlogComment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at
		FROM blog_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, postID, limit, offset)
	if err != nil {
		r.log.Error("Failed to get comments",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return nil, fmt.Errorf("find comments of post %s: %w", postID.String(), err)
	}
	defer rows.Close()

	var comments []*entity.BlogComment
	for rows.Next() {
		var c entity.BlogComment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Username, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	return comments, rows.Err()
}

func (r *blogCommentRepository) CountByPostID(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blog_comments WHERE post_id = $1`, postID).Scan(&count); err != nil {
		r.log.Error("Failed to count comments", zap.Error(err))
		return 0, fmt.Errorf("count comments of post %s: %w", postID.String(), err)
	}
	return count, nil
}

func (r *blogCommentRepository) DeleteByPostID(ctx context.Context, postID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM blog_comments WHERE post_id = $1`, postID); err != nil {
		r.log.Error("Failed to delete comments of post",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return fmt.Errorf("delete comments of post %s: %w", postID.String(), err)
	}
	return nil
}

func (r *blogCommentRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM blog_comments WHERE user_id = $1`, userID); err != nil {
		r.log.Error("Failed to delete comments of user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("delete comments of user %s: %w", userID.String(), err)
	}
	return nil
}
