package repository

import (
	"context"
	"errors"
	"fmt"

	"travel-agency/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrDuplicate is returned when an insert or update hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

type Repository struct {
	Tx               Transactor
	User             UserRepository
	Profile          ProfileRepository
	Session          SessionRepository
	OTP              OTPRepository
	Destination      DestinationRepository
	DestinationImage DestinationImageRepository
	Tour             TourRepository
	Promotion        PromotionRepository
	Reservation      ReservationRepository
	Section          SectionRepository
	BlogPost         BlogPostRepository
	BlogImage        BlogImageRepository
	BlogComment      BlogCommentRepository
	Contact          ContactRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newRepositories(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:             NewUserRepository(q, log),
		Profile:          NewProfileRepository(q, log),
		Session:          NewSessionRepository(q, log),
		OTP:              NewOTPRepository(q, log),
		Destination:      NewDestinationRepository(q, log),
		DestinationImage: NewDestinationImageRepository(q, log),
		Tour:             NewTourRepository(q, log),
		Promotion:        NewPromotionRepository(q, log),
		Reservation:      NewReservationRepository(q, log),
		Section:          NewSectionRepository(q, log),
		BlogPost:         NewBlogPostRepository(q, log),
		BlogImage:        NewBlogImageRepository(q, log),
		BlogComment:      NewBlogCommentRepository(q, log),
		Contact:          NewContactRepository(q, log),
	}
}

// Transactor runs fn against a Repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(repo *Repository) error) error
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) InTx(ctx context.Context, iso pgx.TxIsoLevel, fn func(repo *Repository) error) error {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: iso})
	if err != nil {
		t.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op once committed
	defer tx.Rollback(ctx)

	repo := newRepositories(tx, t.log)
	repo.Tx = joinedTx{repo: repo}

	if err := fn(repo); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		t.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// joinedTx lets code that already runs inside a transaction call InTx again
// without opening a nested one.
type joinedTx struct {
	repo *Repository
}

func (j joinedTx) InTx(_ context.Context, _ pgx.TxIsoLevel, fn func(repo *Repository) error) error {
	return fn(j.repo)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
