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

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", id.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := us.repo.Profile.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}

	resp := response.ProfileToResponse(user, profile)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	profile := &entity.UserProfile{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		UserID:       userID,
		Phone:        strings.TrimSpace(req.Phone),
		Country:      strings.TrimSpace(req.Country),
		PostalCode:   strings.TrimSpace(req.PostalCode),
	}

	if err := us.repo.Profile.Upsert(ctx, profile); err != nil {
		us.log.Error("Failed to save profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("save profile: %w", err)
	}

	resp := response.ProfileToResponse(user, profile)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	users, err := us.repo.User.FindAll(ctx, limit, offset)
	if err != nil {
		us.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("page", req.PageNumber()),
			zap.Int("per_page", limit),
		)
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, fmt.Errorf("count users: %w", err)
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	return response.NewPaginatedResponse(userResponses, req.PageNumber(), limit, total), nil
}

// DeleteUser removes everything the user owns, revokes their sessions and
// soft deletes the account, inside one transaction.
func (us *userService) DeleteUser(ctx context.Context, userID string) error {
	id, err := parseUUID("id", userID)
	if err != nil {
		return err
	}

	user, err := us.findUser(ctx, id)
	if err != nil {
		return err
	}

	var removed int64
	err = us.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		removed, err = tx.Reservation.DeleteByUserID(ctx, id)
		if err != nil {
			return fmt.Errorf("delete reservations: %w", err)
		}
		if err := tx.BlogComment.DeleteByUserID(ctx, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Profile.DeleteByUserID(ctx, id); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := tx.Session.RevokeAllUserSessions(ctx, id); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return tx.User.Delete(ctx, id)
	})
	if err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("id", userID))
		return err
	}

	us.log.Info("User deleted",
		zap.String("user_id", id.String()),
		zap.String("email", user.Email),
		zap.Int64("reservations", removed),
	)
	return nil
}
