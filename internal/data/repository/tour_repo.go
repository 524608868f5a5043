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

type TourFilter struct {
	DestinationID *uuid.UUID
	PromotionOnly bool
}

type TourRepository interface {
	Create(ctx context.Context, tour *entity.Tour) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Tour, error)
	// LockByID reads the tour with SELECT ... FOR UPDATE. It only serialises
	// anything when called inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Tour, error)
	FindAll(ctx context.Context, filter TourFilter, limit, offset int) ([]*entity.Tour, error)
	CountAll(ctx context.Context, filter TourFilter) (int64, error)
	FindIDsByDestinationID(ctx context.Context, destinationID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, tour *entity.Tour) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type tourRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTourRepository(db database.Querier, log *zap.Logger) TourRepository {
	return &tourRepository{
		db:  db,
		log: log.With(zap.String("repository", "tour")),
	}
}

const tourColumns = `id, destination_id, title, image, price_per_night, description,
		       transport, hotel, activities, is_promotion, discount_percent, capacity,
		       created_at, updated_at`

func scanTour(row pgx.Row) (*entity.Tour, error) {
	var t entity.Tour
	err := row.Scan(
		&t.ID,
		&t.DestinationID,
		&t.Title,
		&t.Image,
		&t.PricePerNight,
		&t.Description,
		&t.Transport,
		&t.Hotel,
		&t.Activities,
		&t.IsPromotion,
		&t.DiscountPercent,
		&t.Capacity,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tourRepository) Create(ctx context.Context, t *entity.Tour) error {
	query := `
		INSERT INTO tours (id, destination_id, title, image, price_per_night, description,
		                   transport, hotel, activities, is_promotion, discount_percent, capacity,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.DestinationID,
		t.Title,
		t.Image,
		t.PricePerNight,
		t.Description,
		t.Transport,
		t.Hotel,
		t.Activities,
		t.IsPromotion,
		t.DiscountPercent,
		t.Capacity,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create tour",
			zap.Error(err),
			zap.String("title", t.Title),
			zap.String("destination_id", t.DestinationID.String()),
		)
		return fmt.Errorf("create tour %s: %w", t.Title, err)
	}

	return nil
}

func (r *tourRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Tour, error) {
	return r.findByID(ctx, id, false)
}

func (r *tourRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Tour, error) {
	return r.findByID(ctx, id, true)
}

func (r *tourRepository) findByID(ctx context.Context, id uuid.UUID, lock bool) (*entity.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	tour, err := scanTour(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find tour by ID",
			zap.Error(err),
			zap.String("tour_id", id.String()),
			zap.Bool("lock", lock),
		)
		return nil, fmt.Errorf("find tour by ID %s: %w", id.String(), err)
	}

	return tour, nil
}

func (f TourFilter) where() (string, []any) {
	clause := ` WHERE ($1::uuid IS NULL OR destination_id = $1) AND ($2 = false OR is_promotion = true)`
	return clause, []any{f.DestinationID, f.PromotionOnly}
}

func (r *tourRepository) FindAll(ctx context.Context, filter TourFilter, limit, offset int) ([]*entity.Tour, error) {
	where, args := filter.where()
	query := `SELECT ` + tourColumns + ` FROM tours` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get tours",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all tours: %w", err)
	}
	defer rows.Close()

	var tours []*entity.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			r.log.Error("Failed to scan tour row", zap.Error(err))
			return nil, fmt.Errorf("scan tour row: %w", err)
		}
		tours = append(tours, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tour rows: %w", err)
	}

	return tours, nil
}

func (r *tourRepository) CountAll(ctx context.Context, filter TourFilter) (int64, error) {
	where, args := filter.where()

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tours`+where, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count tours", zap.Error(err))
		return 0, fmt.Errorf("count tours: %w", err)
	}

	return count, nil
}

func (r *tourRepository) FindIDsByDestinationID(ctx context.Context, destinationID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tours WHERE destination_id = $1`, destinationID)
	if err != nil {
		r.log.Error("Failed to get tours of destination",
			zap.Error(err),
			zap.String("destination_id", destinationID.String()),
		)
		return nil, fmt.Errorf("find tours of destination %s: %w", destinationID.String(), err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("collect tour ids: %w", err)
	}

	return ids, nil
}

func (r *tourRepository) Update(ctx context.Context, t *entity.Tour) error {
	query := `
		UPDATE tours
		SET destination_id = $2, title = $3, image = $4, price_per_night = $5,
		    description = $6, transport = $7, hotel = $8, activities = $9,
		    is_promotion = $10, discount_percent = $11, capacity = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		t.ID,
		t.DestinationID,
		t.Title,
		t.Image,
		t.PricePerNight,
		t.Description,
		t.Transport,
		t.Hotel,
		t.Activities,
		t.IsPromotion,
		t.DiscountPercent,
		t.Capacity,
		t.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update tour",
			zap.Error(err),
			zap.String("tour_id", t.ID.String()),
		)
		return fmt.Errorf("update tour %s: %w", t.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tour %s not found", t.ID.String())
	}

	return nil
}

func (r *tourRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete tour",
			zap.Error(err),
			zap.String("tour_id", id.String()),
		)
		return fmt.Errorf("delete tour %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tour %s not found", id.String())
	}

	return nil
}
