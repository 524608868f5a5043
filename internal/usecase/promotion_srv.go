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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PromotionService interface {
	GetPromotions(ctx context.Context) ([]response.PromotionResponse, error)
	GetPromotionByID(ctx context.Context, promotionID string) (*response.PromotionResponse, error)
	CreatePromotion(ctx context.Context, req *request.PromotionRequest) (*response.PromotionResponse, error)
	UpdatePromotion(ctx context.Context, promotionID string, req *request.PromotionRequest) (*response.PromotionResponse, error)
	DeletePromotion(ctx context.Context, promotionID string) error
}

type promotionService struct {
	repo  *repository.Repository
	cache cache.Cache
	log   *zap.Logger
}

func NewPromotionService(repo *repository.Repository, c cache.Cache, log *zap.Logger) PromotionService {
	return &promotionService{
		repo:  repo,
		cache: c,
		log:   log.With(zap.String("service", "promotion")),
	}
}

func (s *promotionService) GetPromotions(ctx context.Context) ([]response.PromotionResponse, error) {
	list, err := s.repo.Promotion.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get promotions: %w", err)
	}

	out := make([]response.PromotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, response.PromotionToResponse(p))
	}
	return out, nil
}

func (s *promotionService) GetPromotionByID(ctx context.Context, promotionID string) (*response.PromotionResponse, error) {
	p, err := s.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	resp := response.PromotionToResponse(p)
	return &resp, nil
}

func (s *promotionService) find(ctx context.Context, promotionID string) (*entity.Promotion, error) {
	id, err := parseUUID("id", promotionID)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Promotion.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	if p == nil {
		return nil, notFound("promotion", id)
	}
	return p, nil
}

// apply copies the request onto p. A promotion either applies to every tour
// or targets exactly one existing tour.
func (s *promotionService) apply(ctx context.Context, p *entity.Promotion, req *request.PromotionRequest) error {
	p.Name = strings.TrimSpace(req.Name)
	p.Percent = req.Percent
	p.Active = req.Active
	p.ApplyToAll = req.ApplyToAll
	p.TourID = nil

	if req.TourID == nil || *req.TourID == "" {
		if !req.ApplyToAll {
			return fieldError("tour_id", "Required unless apply_to_all is set")
		}
		return nil
	}

	tourID := uuid.MustParse(*req.TourID)
	tour, err := s.repo.Tour.FindByID(ctx, tourID)
	if err != nil {
		return fmt.Errorf("get tour: %w", err)
	}
	if tour == nil {
		return notFound("tour", tourID)
	}
	p.TourID = &tourID
	return nil
}

func (s *promotionService) CreatePromotion(ctx context.Context, req *request.PromotionRequest) (*response.PromotionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Promotion{
		BaseNoDelete: entity.NewBaseNoDelete(now),
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}

	if err := s.repo.Promotion.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	s.invalidate(ctx)

	s.log.Info("Promotion created",
		zap.String("promotion_id", p.ID.String()),
		zap.Int("percent", p.Percent),
		zap.Bool("apply_to_all", p.ApplyToAll),
	)

	resp := response.PromotionToResponse(p)
	return &resp, nil
}

func (s *promotionService) UpdatePromotion(ctx context.Context, promotionID string, req *request.PromotionRequest) (*response.PromotionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, promotionID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, req); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.Promotion.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	s.invalidate(ctx)

	resp := response.PromotionToResponse(p)
	return &resp, nil
}

func (s *promotionService) DeletePromotion(ctx context.Context, promotionID string) error {
	p, err := s.find(ctx, promotionID)
	if err != nil {
		return err
	}

	if err := s.repo.Promotion.Delete(ctx, p.ID); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	s.invalidate(ctx)

	s.log.Info("Promotion deleted", zap.String("promotion_id", p.ID.String()))
	return nil
}

func (s *promotionService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, activePromotionsKey); err != nil {
		s.log.Warn("Failed to invalidate promotion cache", zap.Error(err))
	}
}
