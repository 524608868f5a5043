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

type DestinationRepository interface {
	Create(ctx context.Context, destination *entity.Destination) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Destination, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Destination, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, destination *entity.Destination) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type destinationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDestinationRepository(db database.Querier, log *zap.Logger) DestinationRepository {
	return &destinationRepository{
		db:  db,
		log: log.With(zap.String("repository", "destination")),
	}
}

func (r *destinationRepository) Create(ctx context.Context, d *entity.Destination) error {
	query := `
		INSERT INTO destinations (id, name, image, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, d.ID, d.Name, d.Image, d.Description, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create destination",
			zap.Error(err),
			zap.String("name", d.Name),
		)
		return fmt.Errorf("create destination %s: %w", d.Name, err)
	}

	return nil
}

func (r *destinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Destination, error) {
	query := `
		SELECT id, name, image, description, created_at, updated_at
		FROM destinations
		WHERE id = $1
	`

	var d entity.Destination
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.Name,
		&d.Image,
		&d.Description,
		&d.CreatedAt,
		&d.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find destination by ID",
			zap.Error(err),
			zap.String("destination_id", id.String()),
		)
		return nil, fmt.Errorf("find destination by ID %s: %w", id.String(), err)
	}

	return &d, nil
}

func (r *destinationRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Destination, error) {
	query := `
		SELECT id, name, image, description, created_at, updated_at
		FROM destinations
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get destinations", zap.Error(err))
		return nil, fmt.Errorf("find all destinations: %w", err)
	}
	defer rows.Close()

	var destinations []*entity.Destination
	for rows.Next() {
		var d entity.Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Image, &d.Description, &d.CreatedAt, &d.UpdatedAt); err != nil {
			r.log.Error("Failed to scan destination row", zap.Error(err))
			return nil, fmt.Errorf("scan destination row: %w", err)
		}
		destinations = append(destinations, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate destination rows: %w", err)
	}

	return destinations, nil
}

func (r *destinationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&count); err != nil {
		r.log.Error("Failed to count destinations", zap.Error(err))
		return 0, fmt.Errorf("count destinations: %w", err)
	}
	return count, nil
}

func (r *destinationRepository) Update(ctx context.Context, d *entity.Destination) error {
	query := `
		UPDATE destinations
		SET name = $2, image = $3, description = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, d.ID, d.Name, d.Image, d.Description, d.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update destination",
			zap.Error(err),
			zap.String("destination_id", d.ID.String()),
		)
		return fmt.Errorf("update destination %s: %w", d.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("destination %s not found", d.ID.String())
	}

	return nil
}

func (r *destinationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete destination",
			zap.Error(err),
			zap.String("destination_id", id.String()),
		)
		return fmt.Errorf("delete destination %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("destination %s not found", id.String())
	}

	return nil
}

// ==================== GALLERY ====================

type DestinationImageRepository interface {
	Create(ctx context.Context, image *entity.DestinationImage) error
	FindByDestinationID(ctx context.Context, destinationID uuid.UUID) ([]*entity.DestinationImage, error)
	DeleteByDestinationID(ctx context.Context, destinationID uuid.UUID) error
}

type destinationImageRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDestinationImageRepository(db database.Querier, log *zap.Logger) DestinationImageRepository {
	return &destinationImageRepository{
		db:  db,
		log: log.With(zap.String("repository", "destination_image")),
	}
}

func (r *destinationImageRepository) Create(ctx context.Context, img *entity.DestinationImage) error {
	query := `
		INSERT INTO destination_images (id, destination_id, image, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, img.ID, img.DestinationID, img.Image, img.CreatedAt); err != nil {
		r.log.Error("Failed to create destination image",
			zap.Error(err),
			zap.String("destination_id", img.DestinationID.String()),
		)
		return fmt.Errorf("create image for destination %s: %w", img.DestinationID.String(), err)
	}

	return nil
}

func (r *destinationImageRepository) FindByDestinationID(ctx context.Context, destinationID uuid.UUID) ([]*entity.DestinationImage, error) {
	query := `
		SELECT id, destination_id, image, created_at
		FROM destination_images
		WHERE destination_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, destinationID)
	if err != nil {
		r.log.Error("Failed to get destination images",
			zap.Error(err),
			zap.String("destination_id", destinationID.String()),
		)
		return nil, fmt.Errorf("find images of destination %s: %w", destinationID.String(), err)
	}
	defer rows.Close()

	var images []*entity.DestinationImage
	for rows.Next() {
		var img entity.DestinationImage
		if err := rows.Scan(&img.ID, &img.DestinationID, &img.Image, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan destination image row: %w", err)
		}
		images = append(images, &img)
	}

	return images, rows.Err()
}

func (r *destinationImageRepository) DeleteByDestinationID(ctx context.Context, destinationID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM destination_images WHERE destination_id = $1`, destinationID); err != nil {
		r.log.Error("Failed to delete destination images",
			zap.Error(err),
			zap.String("destination_id", destinationID.String()),
		)
		return fmt.Errorf("delete images of destination %s: %w", destinationID.String(), err)
	}
	return nil
}
