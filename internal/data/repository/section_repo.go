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

type SectionRepository interface {
	Create(ctx context.Context, section *entity.Section) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Section, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Section, error)
	FindAll(ctx context.Context, navOnly bool) ([]*entity.Section, error)
	Update(ctx context.Context, section *entity.Section) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sectionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSectionRepository(db database.Querier, log *zap.Logger) SectionRepository {
	return &sectionRepository{
		db:  db,
		log: log.With(zap.String("repository", "section")),
	}
}

const sectionColumns = `id, title, slug, content, image, sort_order, show_in_nav, created_at, updated_at`

func scanSection(row pgx.Row) (*entity.Section, error) {
	var s entity.Section
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Slug,
		&s.Content,
		&s.Image,
		&s.SortOrder,
		&s.ShowInNav,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sectionRepository) Create(ctx context.Context, s *entity.Section) error {
	query := `
		INSERT INTO sections (id, title, slug, content, image, sort_order, show_in_nav, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query, s.ID, s.Title, s.Slug, s.Content, s.Image, s.SortOrder, s.ShowInNav, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("create section %s: %w", s.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create section",
			zap.Error(err),
			zap.String("slug", s.Slug),
		)
		return fmt.Errorf("create section %s: %w", s.Slug, err)
	}

	return nil
}

func (r *sectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Section, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *sectionRepository) FindBySlug(ctx context.Context, slug string) (*entity.Section, error) {
	return r.findOne(ctx, "slug = $1", slug)
}

func (r *sectionRepository) findOne(ctx context.Context, where string, arg any) (*entity.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections WHERE ` + where

	s, err := scanSection(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find section",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("find section %v: %w", arg, err)
	}

	return s, nil
}

// FindAll lists sections in display order.
func (r *sectionRepository) FindAll(ctx context.Context, navOnly bool) ([]*entity.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections
		WHERE ($1 = false OR show_in_nav = true)
		ORDER BY sort_order ASC, title ASC
	`

	rows, err := r.db.Query(ctx, query, navOnly)
	if err != nil {
		r.log.Error("Failed to get sections", zap.Error(err))
		return nil, fmt.Errorf("find sections: %w", err)
	}
	defer rows.Close()

	var sections []*entity.Section
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, fmt.Errorf("scan section row: %w", err)
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

func (r *sectionRepository) Update(ctx context.Context, s *entity.Section) error {
	query := `
		UPDATE sections
		SET title = $2, slug = $3, content = $4, image = $5, sort_order = $6,
		    show_in_nav = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, s.ID, s.Title, s.Slug, s.Content, s.Image, s.SortOrder, s.ShowInNav, s.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("update section %s: %w", s.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update section",
			zap.Error(err),
			zap.String("section_id", s.ID.String()),
		)
		return fmt.Errorf("update section %s: %w", s.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s not found", s.ID.String())
	}

	return nil
}

func (r *sectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete section",
			zap.Error(err),
			zap.String("section_id", id.String()),
		)
		return fmt.Errorf("delete section %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("section %s not found", id.String())
	}

	return nil
}
