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
	"travel-agency/pkg/mailer"
	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContactService interface {
	Send(ctx context.Context, req *request.ContactRequest) (*response.ContactMessageResponse, error)
	GetMessages(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ContactMessageResponse], error)
}

type contactService struct {
	repo   *repository.Repository
	mail   mailer.Mailer
	config *utils.Config
	log    *zap.Logger
}

func NewContactService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) ContactService {
	return &contactService{
		repo:   repo,
		mail:   mail,
		config: config,
		log:    log.With(zap.String("service", "contact")),
	}
}

// Send stores the message and forwards it to the operator inbox. A failed
// forward does not lose the message.
func (s *contactService) Send(ctx context.Context, req *request.ContactRequest) (*response.ContactMessageResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	msg := &entity.ContactMessage{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.TrimSpace(req.Email),
		Subject:    strings.TrimSpace(req.Subject),
		Message:    req.Message,
	}

	if err := s.repo.Contact.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}

	if s.config.Email.Operator != "" {
		subject := msg.Subject
		if subject == "" {
			subject = "New contact message"
		}
		err := s.mail.Send(ctx, mailer.Message{
			To:      []string{s.config.Email.Operator},
			ReplyTo: msg.Email,
			Subject: "[Contact] " + subject,
			Body:    fmt.Sprintf("From: %s <%s>\n\n%s\n", msg.Name, msg.Email, msg.Message),
		})
		if err != nil {
			s.log.Warn("Failed to forward contact message", zap.Error(err), zap.String("message_id", msg.ID.String()))
		}
	}

	s.log.Info("Contact message received", zap.String("message_id", msg.ID.String()))

	resp := response.ContactToResponse(msg)
	return &resp, nil
}

func (s *contactService) GetMessages(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ContactMessageResponse], error) {
	limit := req.Limit()

	list, err := s.repo.Contact.FindAll(ctx, limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get contact messages: %w", err)
	}

	total, err := s.repo.Contact.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contact messages: %w", err)
	}

	data := make([]response.ContactMessageResponse, 0, len(list))
	for _, m := range list {
		data = append(data, response.ContactToResponse(m))
	}

	return response.NewPaginatedResponse(data, req.PageNumber(), limit, total), nil
}
