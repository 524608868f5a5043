package repository

import (
	"context"
	"fmt"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	// LockByID reads the reservation with SELECT ... FOR UPDATE.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindByPaymentRef(ctx context.Context, ref string) (*entity.Reservation, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, status *entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error)
	CountAll(ctx context.Context, status *entity.ReservationStatus) (int64, error)
	Update(ctx context.Context, reservation *entity.Reservation) error
	SetPaymentRef(ctx context.Context, id uuid.UUID, ref string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Business queries

	// FindActiveOverlapping returns pending and booked reservations of the
	// tour whose [start, end) range intersects [start, end).
	FindActiveOverlapping(ctx context.Context, tourID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteByTourID(ctx context.Context, tourID uuid.UUID) (int64, error)
}

type reservationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewReservationRepository(db database.Querier, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

const reservationSelect = `
		SELECT r.id, r.user_id, r.tour_id, r.start_date, r.end_date, r.num_persons,
		       r.total_price, r.booking_for_other, r.guest_full_name, r.guest_phone,
		       r.status, r.payment_method, r.payment_status, r.stripe_payment_intent,
		       r.admin_note, r.created_at, r.updated_at, t.title
		FROM reservations r
		JOIN tours t ON t.id = r.tour_id
`

func scanReservation(row pgx.Row) (*entity.Reservation, error) {
	var res entity.Reservation
	err := row.Scan(
		&res.ID,
		&res.UserID,
		&res.TourID,
		&res.StartDate,
		&res.EndDate,
		&res.NumPersons,
		&res.TotalPrice,
		&res.BookingForOther,
		&res.GuestFullName,
		&res.GuestPhone,
		&res.Status,
		&res.PaymentMethod,
		&res.PaymentStatus,
		&res.PaymentRef,
		&res.AdminNote,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.TourTitle,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, user_id, tour_id, start_date, end_date, num_persons,
		                          total_price, booking_for_other, guest_full_name, guest_phone,
		                          status, payment_method, payment_status, stripe_payment_intent,
		                          admin_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.Exec(ctx, query,
		res.ID,
		res.UserID,
		res.TourID,
		res.StartDate,
		res.EndDate,
		res.NumPersons,
		res.TotalPrice,
		res.BookingForOther,
		res.GuestFullName,
		res.GuestPhone,
		res.Status,
		res.PaymentMethod,
		res.PaymentStatus,
		res.PaymentRef,
		res.AdminNote,
		res.CreatedAt,
		res.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("user_id", res.UserID.String()),
			zap.String("tour_id", res.TourID.String()),
		)
		return fmt.Errorf("create reservation %s: %w", res.ID.String(), err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findOne(ctx, reservationSelect+` WHERE r.id = $1`, id)
}

func (r *reservationRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	return r.findOne(ctx, reservationSelect+` WHERE r.id = $1 FOR UPDATE OF r`, id)
}

func (r *reservationRepository) FindByPaymentRef(ctx context.Context, ref string) (*entity.Reservation, error) {
	return r.findOne(ctx, reservationSelect+` WHERE r.stripe_payment_intent = $1`, ref)
}

func (r *reservationRepository) findOne(ctx context.Context, query string, arg any) (*entity.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, query, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find reservation",
			zap.Error(err),
			zap.Any("key", arg),
		)
		return nil, fmt.Errorf("find reservation %v: %w", arg, err)
	}

	return res, nil
}

func (r *reservationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	query := reservationSelect + `
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, userID, limit, offset)
}

func (r *reservationRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reservations by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count reservations by user ID %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *reservationRepository) FindAll(ctx context.Context, status *entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	query := reservationSelect + `
		WHERE ($1::text IS NULL OR r.status = $1)
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.list(ctx, query, status, limit, offset)
}

func (r *reservationRepository) CountAll(ctx context.Context, status *entity.ReservationStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reservations WHERE ($1::text IS NULL OR status = $1)`, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reservations", zap.Error(err))
		return 0, fmt.Errorf("count reservations: %w", err)
	}

	return count, nil
}

func (r *reservationRepository) FindActiveOverlapping(ctx context.Context, tourID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error) {
	query := reservationSelect + `
		WHERE r.tour_id = $1
		  AND r.status IN ('pending', 'booked')
		  AND r.start_date < $3
		  AND r.end_date > $2
	`

	return r.list(ctx, query, tourID, start, end)
}

func (r *reservationRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query reservations", zap.Error(err))
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("scan reservation row: %w", err)
		}
		reservations = append(reservations, res)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate reservation rows: %w", err)
	}

	return reservations, nil
}

// Update writes the mutable fields. Owner, tour, dates and price are fixed
// at creation and never rewritten.
func (r *reservationRepository) Update(ctx context.Context, res *entity.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, payment_status = $3, stripe_payment_intent = $4,
		    admin_note = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		res.ID,
		res.Status,
		res.PaymentStatus,
		res.PaymentRef,
		res.AdminNote,
		res.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("update reservation %s: %w", res.ID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update reservation",
			zap.Error(err),
			zap.String("reservation_id", res.ID.String()),
		)
		return fmt.Errorf("update reservation %s: %w", res.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", res.ID.String())
	}

	return nil
}

// SetPaymentRef attaches a processor reference without touching the status
// columns, which an operator may be changing at the same time.
func (r *reservationRepository) SetPaymentRef(ctx context.Context, id uuid.UUID, ref string, at time.Time) error {
	query := `UPDATE reservations SET stripe_payment_intent = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, ref, at)
	if isUniqueViolation(err) {
		return fmt.Errorf("set payment reference on %s: %w", id.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to set payment reference",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("set payment reference on %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id.String())
	}

	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete reservation",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return fmt.Errorf("delete reservation %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("reservation %s not found", id.String())
	}

	return nil
}

func (r *reservationRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE user_id = $1`, userID)
	if err != nil {
		r.log.Error("Failed to delete reservations of user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("delete reservations of user %s: %w", userID.String(), err)
	}

	return result.RowsAffected(), nil
}

func (r *reservationRepository) DeleteByTourID(ctx context.Context, tourID uuid.UUID) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE tour_id = $1`, tourID)
	if err != nil {
		r.log.Error("Failed to delete reservations of tour",
			zap.Error(err),
			zap.String("tour_id", tourID.String()),
		)
		return 0, fmt.Errorf("delete reservations of tour %s: %w", tourID.String(), err)
	}

	return result.RowsAffected(), nil
}
