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

type TourService interface {
	GetTours(ctx context.Context, req *request.TourListRequest) (*response.PaginatedResponse[response.TourResponse], error)
	GetTourByID(ctx context.Context, tourID string) (*response.TourDetailResponse, error)
	CreateTour(ctx context.Context, req *request.TourRequest) (*response.TourResponse, error)
	UpdateTour(ctx context.Context, tourID string, req *request.TourRequest) (*response.TourResponse, error)
	DeleteTour(ctx context.Context, tourID string) error
	SetImage(ctx context.Context, tourID string, img ImageUpload) (*response.TourResponse, error)
}

type tourService struct {
	repo  *repository.Repository
	media media.Store
	cache cache.Cache
	log   *zap.Logger
}

func NewTourService(repo *repository.Repository, store media.Store, c cache.Cache, log *zap.Logger) TourService {
	return &tourService{
		repo:  repo,
		media: store,
		cache: c,
		log:   log.With(zap.String("service", "tour")),
	}
}

// Cache keys. Tour rows and the active promotion list are cached apart so a
// promotion change only drops one key.
const activePromotionsKey = "promotions:active"

func tourCacheKey(id uuid.UUID) string {
	return "tour:" + id.String()
}

func (s *tourService) GetTours(ctx context.Context, req *request.TourListRequest) (*response.PaginatedResponse[response.TourResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	filter := repository.TourFilter{PromotionOnly: req.PromotionOnly}
	if req.DestinationID != "" {
		id := uuid.MustParse(req.DestinationID)
		filter.DestinationID = &id
	}

	limit := req.Limit()
	tours, err := s.repo.Tour.FindAll(ctx, filter, limit, req.Offset())
	if err != nil {
		s.log.Error("Failed to get tours", zap.Error(err), zap.Int("page", req.PageNumber()))
		return nil, fmt.Errorf("get tours: %w", err)
	}

	total, err := s.repo.Tour.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count tours: %w", err)
	}

	return response.NewPaginatedResponse(response.ToursToResponse(tours), req.PageNumber(), limit, total), nil
}

func (s *tourService) GetTourByID(ctx context.Context, tourID string) (*response.TourDetailResponse, error) {
	id, err := parseUUID("id", tourID)
	if err != nil {
		return nil, err
	}

	tour, err := s.cachedTour(ctx, id)
	if err != nil {
		return nil, err
	}

	promotions, err := s.activePromotions(ctx)
	if err != nil {
		return nil, err
	}

	return &response.TourDetailResponse{
		TourResponse:      response.TourToResponse(tour),
		EffectiveDiscount: EffectiveDiscount(tour, promotions),
	}, nil
}

// cachedTour reads through the cache. Cache failures fall back to the
// database.
func (s *tourService) cachedTour(ctx context.Context, id uuid.UUID) (*entity.Tour, error) {
	key := tourCacheKey(id)

	var cached entity.Tour
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Tour cache read failed", zap.Error(err), zap.String("key", key))
	}
	if hit {
		return &cached, nil
	}

	tour, err := s.repo.Tour.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get tour", zap.Error(err), zap.String("tour_id", id.String()))
		return nil, fmt.Errorf("get tour: %w", err)
	}
	if tour == nil {
		return nil, notFound("tour", id)
	}

	if err := s.cache.Set(ctx, key, tour); err != nil {
		s.log.Warn("Tour cache write failed", zap.Error(err), zap.String("key", key))
	}

	return tour, nil
}

func (s *tourService) activePromotions(ctx context.Context) ([]*entity.Promotion, error) {
	var cached []*entity.Promotion
	hit, err := s.cache.Get(ctx, activePromotionsKey, &cached)
	if err != nil {
		s.log.Warn("Promotion cache read failed", zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	all, err := s.repo.Promotion.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get promotions: %w", err)
	}

	active := make([]*entity.Promotion, 0, len(all))
	for _, p := range all {
		if p.Active {
			active = append(active, p)
		}
	}

	if err := s.cache.Set(ctx, activePromotionsKey, active); err != nil {
		s.log.Warn("Promotion cache write failed", zap.Error(err))
	}

	return active, nil
}

func (s *tourService) find(ctx context.Context, tourID string) (*entity.Tour, error) {
	id, err := parseUUID("id", tourID)
	if err != nil {
		return nil, err
	}

	tour, err := s.repo.Tour.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tour: %w", err)
	}
	if tour == nil {
		return nil, notFound("tour", id)
	}

	return tour, nil
}

// applyTourRequest copies validated fields and checks the destination.
func (s *tourService) applyTourRequest(ctx context.Context, tour *entity.Tour, req *request.TourRequest) error {
	destID := uuid.MustParse(req.DestinationID)

	dest, err := s.repo.Destination.FindByID(ctx, destID)
	if err != nil {
		return fmt.Errorf("get destination: %w", err)
	}
	if dest == nil {
		return notFound("destination", destID)
	}

	tour.DestinationID = destID
	tour.Title = strings.TrimSpace(req.Title)
	tour.PricePerNight = req.PricePerNight
	tour.Description = req.Description
	tour.Transport = req.Transport
	tour.Hotel = req.Hotel
	tour.Activities = req.Activities
	tour.IsPromotion = req.IsPromotion
	tour.DiscountPercent = req.DiscountPercent
	tour.Capacity = req.Capacity
	return nil
}

func (s *tourService) CreateTour(ctx context.Context, req *request.TourRequest) (*response.TourResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	tour := &entity.Tour{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	if err := s.applyTourRequest(ctx, tour, req); err != nil {
		return nil, err
	}

	if err := s.repo.Tour.Create(ctx, tour); err != nil {
		return nil, fmt.Errorf("create tour: %w", err)
	}

	s.log.Info("Tour created",
		zap.String("tour_id", tour.ID.String()),
		zap.String("destination_id", tour.DestinationID.String()),
	)

	resp := response.TourToResponse(tour)
	return &resp, nil
}

func (s *tourService) UpdateTour(ctx context.Context, tourID string, req *request.TourRequest) (*response.TourResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	tour, err := s.find(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if err := s.applyTourRequest(ctx, tour, req); err != nil {
		return nil, err
	}
	tour.UpdatedAt = time.Now()

	if err := s.repo.Tour.Update(ctx, tour); err != nil {
		return nil, fmt.Errorf("update tour: %w", err)
	}
	s.invalidate(ctx, tour.ID)

	resp := response.TourToResponse(tour)
	return &resp, nil
}

// DeleteTour removes the tour and its reservations inside one transaction.
func (s *tourService) DeleteTour(ctx context.Context, tourID string) error {
	tour, err := s.find(ctx, tourID)
	if err != nil {
		return err
	}

	var removed int64
	err = s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		removed, err = tx.Reservation.DeleteByTourID(ctx, tour.ID)
		if err != nil {
			return fmt.Errorf("delete reservations: %w", err)
		}
		return tx.Tour.Delete(ctx, tour.ID)
	})
	if err != nil {
		s.log.Error("Failed to delete tour", zap.Error(err), zap.String("tour_id", tourID))
		return err
	}
	s.invalidate(ctx, tour.ID)

	s.log.Info("Tour deleted", zap.String("tour_id", tour.ID.String()), zap.Int64("reservations", removed))
	return nil
}

func (s *tourService) SetImage(ctx context.Context, tourID string, img ImageUpload) (*response.TourResponse, error) {
	tour, err := s.find(ctx, tourID)
	if err != nil {
		return nil, err
	}

	url, err := storeImage(ctx, s.media, "tours", img)
	if err != nil {
		return nil, err
	}

	tour.Image = &url
	tour.UpdatedAt = time.Now()
	if err := s.repo.Tour.Update(ctx, tour); err != nil {
		return nil, fmt.Errorf("update tour image: %w", err)
	}
	s.invalidate(ctx, tour.ID)

	resp := response.TourToResponse(tour)
	return &resp, nil
}

func (s *tourService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, tourCacheKey(id)); err != nil {
		s.log.Warn("Failed to invalidate tour cache", zap.Error(err), zap.String("tour_id", id.String()))
	}
}
