package usecase

import (
	"travel-agency/internal/data/repository"
	"travel-agency/pkg/cache"
	"travel-agency/pkg/mailer"
	"travel-agency/pkg/media"
	"travel-agency/pkg/payment"
	"travel-agency/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth        AuthService
	User        UserService
	Destination DestinationService
	Tour        TourService
	Promotion   PromotionService
	Reservation ReservationService
	Content     ContentService
	Contact     ContactService
}

// Deps are the collaborators chosen at start-up.
type Deps struct {
	Processor payment.Processor
	Media     media.Store
	Cache     cache.Cache
	Mailer    mailer.Mailer
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:        NewAuthService(repo, deps.Mailer, config, log),
		User:        NewUserService(repo, log),
		Destination: NewDestinationService(repo, deps.Media, deps.Cache, log),
		Tour:        NewTourService(repo, deps.Media, deps.Cache, log),
		Promotion:   NewPromotionService(repo, deps.Cache, log),
		Reservation: NewReservationService(repo, deps.Processor, deps.Mailer, config, log),
		Content:     NewContentService(repo, deps.Media, log),
		Contact:     NewContactService(repo, deps.Mailer, config, log),
	}
}
