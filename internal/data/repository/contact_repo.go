package repository

import (
	"context"
	"fmt"

	"travel-agency/internal/data/entity"
	"travel-agency/pkg/database"

	"go.uber.org/zap"
)

type ContactRepository interface {
	Create(ctx context.Context, msg *entity.ContactMessage) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error)
	CountAll(ctx context.Context) (int64, error)
}

type contactRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewContactRepository(db database.Querier, log *zap.Logger) ContactRepository {
	return &contactRepository{
		db:  db,
		log: log.With(zap.String("repository", "contact")),
	}
}

func (r *contactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.db.Exec(ctx, query, m.ID, m.Name, m.Email, m.Subject, m.Message, m.CreatedAt); err != nil {
		r.log.Error("Failed to save contact message",
			zap.Error(err),
			zap.String("email", m.Email),
		)
		return fmt.Errorf("create contact message from %s: %w", m.Email, err)
	}

	return nil
}

func (r *contactRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get contact messages", zap.Error(err))
		return nil, fmt.Errorf("find contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*entity.ContactMessage
	for rows.Next() {
		var m entity.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact message row: %w", err)
		}
		messages = append(messages, &m)
	}

	return messages, rows.Err()
}

func (r *contactRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM contact_messages`).Scan(&count); err != nil {
		r.log.Error("Failed to count contact messages", zap.Error(err))
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return count, nil
}
