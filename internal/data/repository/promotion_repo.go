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

type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)
	FindAll(ctx context.Context) ([]*entity.Promotion, error)
	// FindActiveForTour returns active promotions that apply to every tour or
	// target the given one.
	FindActiveForTour(ctx context.Context, tourID uuid.UUID) ([]*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type promotionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPromotionRepository(db database.Querier, log *zap.Logger) PromotionRepository {
	return &promotionRepository{
		db:  db,
		log: log.With(zap.String("repository", "promotion")),
	}
}

const promotionColumns = `id, name, percent, active, apply_to_all, tour_id, created_at, updated_at`

func scanPromotion(row pgx.Row) (*entity.Promotion, error) {
	var p entity.Promotion
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Percent,
		&p.Active,
		&p.ApplyToAll,
		&p.TourID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promotionRepository) Create(ctx context.Context, p *entity.Promotion) error {
	query := `
		INSERT INTO promotions (id, name, percent, active, apply_to_all, tour_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Percent, p.Active, p.ApplyToAll, p.TourID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create promotion",
			zap.Error(err),
			zap.String("name", p.Name),
		)
		return fmt.Errorf("create promotion %s: %w", p.Name, err)
	}

	return nil
}

func (r *promotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions WHERE id = $1`

	p, err := scanPromotion(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find promotion by ID",
			zap.Error(err),
			zap.String("promotion_id", id.String()),
		)
		return nil, fmt.Errorf("find promotion by ID %s: %w", id.String(), err)
	}

	return p, nil
}

func (r *promotionRepository) FindAll(ctx context.Context) ([]*entity.Promotion, error) {
	query := `SELECT ` + promotionColumns + ` FROM promotions ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *promotionRepository) FindActiveForTour(ctx context.Context, tourID uuid.UUID) ([]*entity.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE active = true AND (apply_to_all = true OR tour_id = $1)
	`
	return r.list(ctx, query, tourID)
}

func (r *promotionRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Promotion, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get promotions", zap.Error(err))
		return nil, fmt.Errorf("find promotions: %w", err)
	}
	defer rows.Close()

	var promotions []*entity.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			r.log.Error("Failed to scan promotion row", zap.Error(err))
			return nil, fmt.Errorf("scan promotion row: %w", err)
		}
		promotions = append(promotions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}

	return promotions, nil
}

func (r *promotionRepository) Update(ctx context.Context, p *entity.Promotion) error {
	query := `
		UPDATE promotions
		SET name = $2, percent = $3, active = $4, apply_to_all = $5, tour_id = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, p.ID, p.Name, p.Percent, p.Active, p.ApplyToAll, p.TourID, p.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update promotion",
			zap.Error(err),
			zap.String("promotion_id", p.ID.String()),
		)
		return fmt.Errorf("update promotion %s: %w", p.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("promotion %s not found", p.ID.String())
	}

	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete promotion",
			zap.Error(err),
			zap.String("promotion_id", id.String()),
		)
		return fmt.Errorf("delete promotion %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("promotion %s not found", id.String())
	}

	return nil
}
