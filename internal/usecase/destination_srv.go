package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/internal/data/repository"
	"travel-agency/internal/dto/request"
	"travel-agency/internal/dto/response"
	"travel-agency/pkg/cache"
	"travel-agency/pkg/media"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DestinationService interface {
	GetDestinations(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DestinationResponse], error)
	GetDestinationByID(ctx context.Context, destinationID string) (*response.DestinationDetailResponse, error)
	CreateDestination(ctx context.Context, req *request.DestinationRequest) (*response.DestinationResponse, error)
	UpdateDestination(ctx context.Context, destinationID string, req *request.DestinationRequest) (*response.DestinationResponse, error)
	DeleteDestination(ctx context.Context, destinationID string) error
	SetImage(ctx context.Context, destinationID string, img ImageUpload) (*response.DestinationResponse, error)
	AddGalleryImage(ctx context.Context, destinationID string, img ImageUpload) (*response.DestinationDetailResponse, error)
}

type destinationService struct {
	repo  *repository.Repository
	media media.Store
	cache cache.Cache
	log   *zap.Logger
}

func NewDestinationService(repo *repository.Repository, store media.Store, c cache.Cache, log *zap.Logger) DestinationService {
	return &destinationService{
		repo:  repo,
		media: store,
		cache: c,
		log:   log.With(zap.String("service", "destination")),
	}
}

// tours listed on a destination page
const destinationTourLimit = 100

func (s *destinationService) GetDestinations(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DestinationResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	list, err := s.repo.Destination.FindAll(ctx, limit, offset)
	if err != nil {
		s.log.Error("Failed to get destinations", zap.Error(err), zap.Int("page", req.PageNumber()))
		return nil, fmt.Errorf("get destinations: %w", err)
	}

	total, err := s.repo.Destination.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count destinations: %w", err)
	}

	data := make([]response.DestinationResponse, 0, len(list))
	for _, d := range list {
		data = append(data, response.DestinationToResponse(d))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), limit, total), nil
}

func (s *destinationService) GetDestinationByID(ctx context.Context, destinationID string) (*response.DestinationDetailResponse, error) {
	dest, err := s.find(ctx, destinationID)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, dest)
}

func (s *destinationService) detail(ctx context.Context, dest *entity.Destination) (*response.DestinationDetailResponse, error) {
	images, err := s.repo.DestinationImage.FindByDestinationID(ctx, dest.ID)
	if err != nil {
		return nil, fmt.Errorf("get destination gallery: %w", err)
	}

	tours, err := s.repo.Tour.FindAll(ctx, repository.TourFilter{DestinationID: &dest.ID}, destinationTourLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("get destination tours: %w", err)
	}

	gallery := make([]string, 0, len(images))
	for _, img := range images {
		gallery = append(gallery, img.Image)
	}

	return &response.DestinationDetailResponse{
		DestinationResponse: response.DestinationToResponse(dest),
		Gallery:             gallery,
		Tours:               response.ToursToResponse(tours),
	}, nil
}

func (s *destinationService) find(ctx context.Context, destinationID string) (*entity.Destination, error) {
	id, err := parseUUID("id", destinationID)
	if err != nil {
		return nil, err
	}

	dest, err := s.repo.Destination.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get destination", zap.Error(err), zap.String("destination_id", destinationID))
		return nil, fmt.Errorf("get destination: %w", err)
	}
	if dest == nil {
		return nil, notFound("destination", id)
	}

	return dest, nil
}

func (s *destinationService) CreateDestination(ctx context.Context, req *request.DestinationRequest) (*response.DestinationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	dest := &entity.Destination{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := s.repo.Destination.Create(ctx, dest); err != nil {
		return nil, fmt.Errorf("create destination: %w", err)
	}

	s.log.Info("Destination created", zap.String("destination_id", dest.ID.String()), zap.String("name", dest.Name))

	resp := response.DestinationToResponse(dest)
	return &resp, nil
}

func (s *destinationService) UpdateDestination(ctx context.Context, destinationID string, req *request.DestinationRequest) (*response.DestinationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	dest, err := s.find(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	dest.Name = strings.TrimSpace(req.Name)
	dest.Description = req.Description
	dest.UpdatedAt = time.Now()

	if err := s.repo.Destination.Update(ctx, dest); err != nil {
		return nil, fmt.Errorf("update destination: %w", err)
	}

	resp := response.DestinationToResponse(dest)
	return &resp, nil
}

// DeleteDestination removes the destination together with its tours, their
// reservations and the gallery, in that order, inside one transaction.
func (s *destinationService) DeleteDestination(ctx context.Context, destinationID string) error {
	dest, err := s.find(ctx, destinationID)
	if err != nil {
		return err
	}

	var tourIDs []uuid.UUID
	var removed int64

	err = s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		tourIDs, err = tx.Tour.FindIDsByDestinationID(ctx, dest.ID)
		if err != nil {
			return fmt.Errorf("list tours: %w", err)
		}

		for _, tourID := range tourIDs {
			n, err := tx.Reservation.DeleteByTourID(ctx, tourID)
			if err != nil {
				return fmt.Errorf("delete reservations of tour %s: %w", tourID, err)
			}
			removed += n

			if err := tx.Tour.Delete(ctx, tourID); err != nil {
				return fmt.Errorf("delete tour %s: %w", tourID, err)
			}
		}

		if err := tx.DestinationImage.DeleteByDestinationID(ctx, dest.ID); err != nil {
			return fmt.Errorf("delete gallery: %w", err)
		}

		return tx.Destination.Delete(ctx, dest.ID)
	})
	if err != nil {
		s.log.Error("Failed to delete destination", zap.Error(err), zap.String("destination_id", destinationID))
		return err
	}

	keys := make([]string, 0, len(tourIDs))
	for _, id := range tourIDs {
		keys = append(keys, tourCacheKey(id))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("Failed to invalidate tour cache", zap.Error(err))
	}

	s.log.Info("Destination deleted",
		zap.String("destination_id", dest.ID.String()),
		zap.Int("tours", len(tourIDs)),
		zap.Int64("reservations", removed),
	)
	return nil
}

func (s *destinationService) SetImage(ctx context.Context, destinationID string, img ImageUpload) (*response.DestinationResponse, error) {
	dest, err := s.find(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "destinations", img)
	if err != nil {
		return nil, err
	}

	dest.Image = &url
	dest.UpdatedAt = time.Now()
	if err := s.repo.Destination.Update(ctx, dest); err != nil {
		return nil, fmt.Errorf("update destination image: %w", err)
	}

	resp := response.DestinationToResponse(dest)
	return &resp, nil
}

func (s *destinationService) AddGalleryImage(ctx context.Context, destinationID string, img ImageUpload) (*response.DestinationDetailResponse, error) {
	dest, err := s.find(ctx, destinationID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "destinations/gallery", img)
	if err != nil {
		return nil, err
	}

	image := &entity.DestinationImage{
		BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		DestinationID: dest.ID,
		Image:         url,
	}
	if err := s.repo.DestinationImage.Create(ctx, image); err != nil {
		return nil, fmt.Errorf("add gallery image: %w", err)
	}

	return s.detail(ctx, dest)
}
