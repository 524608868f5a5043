package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/internal/data/repository"
	"travel-agency/internal/dto/request"
	"travel-agency/internal/dto/response"
	"travel-agency/pkg/mailer"
	"travel-agency/pkg/payment"
	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationService interface {
	// Customer
	Create(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.CreateReservationResponse, error)
	Quote(ctx context.Context, tourID string, req *request.QuoteRequest) (*response.QuoteResponse, error)
	GetOwn(ctx context.Context, userID uuid.UUID, reservationID string) (*response.ReservationResponse, error)
	ListByUser(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	CancelOwn(ctx context.Context, userID uuid.UUID, reservationID string) (*response.ReservationResponse, error)

	// Operator
	GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	List(ctx context.Context, req *request.ListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error)
	SetStatus(ctx context.Context, reservationID string, req *request.UpdateReservationStatusRequest) (*response.ReservationResponse, error)
	RecordPayment(ctx context.Context, reservationID string, req *request.RecordPaymentRequest) (*response.ReservationResponse, error)
	Delete(ctx context.Context, reservationID string) error

	// Processor callback
	HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error
}

type reservationService struct {
	repo      *repository.Repository
	processor payment.Processor
	mail      mailer.Mailer
	config    *utils.Config
	log       *zap.Logger
}

func NewReservationService(
	repo *repository.Repository,
	processor payment.Processor,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		repo:      repo,
		processor: processor,
		mail:      mail,
		config:    config,
		log:       log.With(zap.String("service", "reservation")),
	}
}

// ==================== CREATE ====================

func (s *reservationService) Create(ctx context.Context, userID uuid.UUID, req *request.CreateReservationRequest) (*response.CreateReservationResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create reservation validation failed", zap.Error(err))
		return nil, err
	}

	tourID, err := parseUUID("tour_id", req.TourID)
	if err != nil {
		return nil, err
	}

	start, end, nights, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	if req.BookingForOther && strings.TrimSpace(req.GuestFullName) == "" {
		return nil, fieldError("guest_full_name", "This field is required in this context")
	}

	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}

	now := time.Now()
	res := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:          userID,
		TourID:          tourID,
		StartDate:       start,
		EndDate:         end,
		NumPersons:      req.NumPersons,
		BookingForOther: req.BookingForOther,
		Status:          entity.ReservationStatusPending,
		PaymentMethod:   entity.PaymentMethod(req.PaymentMethod),
		PaymentStatus:   entity.PaymentStatusUnpaid,
	}
	if req.BookingForOther {
		res.GuestFullName = strings.TrimSpace(req.GuestFullName)
		res.GuestPhone = strings.TrimSpace(req.GuestPhone)
	}

	var quote Quote
	// The tour row lock serialises concurrent bookings of the same tour, so
	// the availability check and the insert see a stable set of reservations.
	err = s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		tour, err := tx.Tour.LockByID(ctx, tourID)
		if err != nil {
			return fmt.Errorf("lock tour: %w", err)
		}
		if tour == nil {
			return notFound("tour", tourID)
		}

		overlapping, err := tx.Reservation.FindActiveOverlapping(ctx, tourID, start, end)
		if err != nil {
			return fmt.Errorf("check availability: %w", err)
		}
		if err := checkAvailability(tour, overlapping, userID, req.NumPersons); err != nil {
			return err
		}

		promotions, err := tx.Promotion.FindActiveForTour(ctx, tourID)
		if err != nil {
			return fmt.Errorf("load promotions: %w", err)
		}

		quote = CalculatePrice(tour.PricePerNight, nights, req.NumPersons, EffectiveDiscount(tour, promotions))
		if err := quote.Check(); err != nil {
			return err
		}
		res.TotalPrice = quote.Total()
		res.TourTitle = tour.Title

		return tx.Reservation.Create(ctx, res)
	})
	if err != nil {
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrValidation) {
			s.log.Error("Failed to create reservation",
				zap.Error(err),
				zap.String("user_id", userID.String()),
				zap.String("tour_id", tourID.String()),
			)
		}
		return nil, err
	}

	s.log.Info("Reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("tour_id", tourID.String()),
		zap.Int("nights", nights),
		zap.Int("num_persons", req.NumPersons),
		zap.Float64("total_price", res.TotalPrice),
	)

	out := &response.CreateReservationResponse{}

	if res.PaymentMethod == entity.PaymentMethodCard && quote.TotalCents > 0 {
		intent, err := s.processor.CreateIntent(ctx, res.ID, quote.TotalCents)
		if err != nil {
			// the reservation stays pending/unpaid; the customer can retry
			// payment or an operator can record it by hand
			out.Reservation = response.ReservationToResponse(res)
			return out, fmt.Errorf("%w: %v", ErrPayment, err)
		}
		if intent != nil {
			if err := s.repo.Reservation.SetPaymentRef(ctx, res.ID, intent.Reference, time.Now()); err != nil {
				s.log.Error("Failed to store payment reference",
					zap.Error(err),
					zap.String("reservation_id", res.ID.String()),
				)
				return nil, fmt.Errorf("store payment reference: %w", err)
			}

			// an operator may have decided the reservation while the intent
			// was being created; report the row as stored
			current, err := s.repo.Reservation.FindByID(ctx, res.ID)
			if err != nil {
				return nil, fmt.Errorf("reload reservation: %w", err)
			}
			if current != nil {
				res = current
			}
			if res.Status == entity.ReservationStatusPending {
				out.ClientSecret = intent.ClientSecret
			}
		}
	}

	out.Reservation = response.ReservationToResponse(res)
	return out, nil
}

// checkAvailability rejects a stay that would double-book the same user or
// exceed the tour capacity. overlapping holds the active reservations whose
// ranges intersect the requested one.
func checkAvailability(tour *entity.Tour, overlapping []*entity.Reservation, userID uuid.UUID, persons int) error {
	occupied := 0
	for _, r := range overlapping {
		if r.UserID == userID {
			return fmt.Errorf("%w: you already have an active reservation for this tour on overlapping dates", ErrConflict)
		}
		occupied += r.NumPersons
	}

	if tour.Capacity > 0 && occupied+persons > tour.Capacity {
		return fmt.Errorf("%w: only %d of %d places left for these dates",
			ErrConflict, max(tour.Capacity-occupied, 0), tour.Capacity)
	}

	return nil
}

func parseStay(startStr, endStr string) (time.Time, time.Time, int, error) {
	start, err := time.Parse(request.DateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fieldError("start_date", "Must match layout "+request.DateLayout)
	}
	end, err := time.Parse(request.DateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fieldError("end_date", "Must match layout "+request.DateLayout)
	}

	nights := entity.Nights(start, end)
	if nights < 1 {
		return time.Time{}, time.Time{}, 0, fieldError("end_date", "Must be after start_date")
	}
	if nights > request.MaxStayNights {
		return time.Time{}, time.Time{}, 0, fieldError("end_date", fmt.Sprintf("Stay cannot exceed %d nights", request.MaxStayNights))
	}

	return start, end, nights, nil
}

func (s *reservationService) Quote(ctx context.Context, tourID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseUUID("id", tourID)
	if err != nil {
		return nil, err
	}

	_, _, nights, err := parseStay(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	tour, err := s.repo.Tour.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find tour: %w", err)
	}
	if tour == nil {
		return nil, notFound("tour", id)
	}

	promotions, err := s.repo.Promotion.FindActiveForTour(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}

	q := CalculatePrice(tour.PricePerNight, nights, req.NumPersons, EffectiveDiscount(tour, promotions))
	if err := q.Check(); err != nil {
		return nil, err
	}

	return &response.QuoteResponse{
		TourID:          tour.ID.String(),
		Nights:          q.Nights,
		NumPersons:      q.NumPersons,
		PricePerNight:   centsToAmount(q.PriceCents),
		BasePrice:       q.Base(),
		DiscountPercent: q.DiscountPercent,
		TotalPrice:      q.Total(),
	}, nil
}

// ==================== READ ====================

func (s *reservationService) GetOwn(ctx context.Context, userID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	res, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, fmt.Errorf("reservation %s belongs to another user: %w", reservationID, ErrForbidden)
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) GetByID(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	res, err := s.find(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) find(ctx context.Context, reservationID string) (*entity.Reservation, error) {
	id, err := parseUUID("id", reservationID)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find reservation: %w", err)
	}
	if res == nil {
		return nil, notFound("reservation", id)
	}

	return res, nil
}

func (s *reservationService) ListByUser(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	list, err := s.repo.Reservation.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reservations of user %s: %w", userID.String(), err)
	}

	total, err := s.repo.Reservation.CountByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count reservations of user %s: %w", userID.String(), err)
	}

	return response.NewPaginatedResponse(response.ReservationsToResponse(list), req.PageNumber(), limit, total), nil
}

func (s *reservationService) List(ctx context.Context, req *request.ListReservationsRequest) (*response.PaginatedResponse[response.ReservationResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var status *entity.ReservationStatus
	if req.Status != "" {
		st := entity.ReservationStatus(req.Status)
		status = &st
	}

	limit := req.Limit()
	list, err := s.repo.Reservation.FindAll(ctx, status, limit, req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	total, err := s.repo.Reservation.CountAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	return response.NewPaginatedResponse(response.ReservationsToResponse(list), req.PageNumber(), limit, total), nil
}

// ==================== LIFECYCLE ====================

func (s *reservationService) SetStatus(ctx context.Context, reservationID string, req *request.UpdateReservationStatusRequest) (*response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseUUID("id", reservationID)
	if err != nil {
		return nil, err
	}

	res, err := s.setStatus(ctx, id, entity.ReservationStatus(req.Status), strings.TrimSpace(req.AdminNote), nil)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

func (s *reservationService) CancelOwn(ctx context.Context, userID uuid.UUID, reservationID string) (*response.ReservationResponse, error) {
	id, err := parseUUID("id", reservationID)
	if err != nil {
		return nil, err
	}

	owner := func(r *entity.Reservation) error {
		if r.UserID != userID {
			return fmt.Errorf("reservation %s belongs to another user: %w", id, ErrForbidden)
		}
		return nil
	}

	res, err := s.setStatus(ctx, id, entity.ReservationStatusCancelled, "cancelled by customer", owner)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

// setStatus applies a guarded status transition under a row lock. check,
// when set, runs against the locked row before the transition.
func (s *reservationService) setStatus(
	ctx context.Context,
	id uuid.UUID,
	to entity.ReservationStatus,
	note string,
	check func(*entity.Reservation) error,
) (*entity.Reservation, error) {
	var res *entity.Reservation
	var from entity.ReservationStatus

	err := s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		var err error
		res, err = tx.Reservation.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}
		if res == nil {
			return notFound("reservation", id)
		}
		if check != nil {
			if err := check(res); err != nil {
				return err
			}
		}

		from = res.Status
		if err := transition(res, to); err != nil {
			return err
		}
		res.AppendNote(note)
		res.UpdatedAt = time.Now()

		return tx.Reservation.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Reservation status changed",
		zap.String("reservation_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	s.notifyStatus(ctx, res)
	return res, nil
}

// transition enforces pending -> {booked, rejected, cancelled}. Terminal
// states accept nothing, and booking is refused after a failed payment.
func transition(res *entity.Reservation, to entity.ReservationStatus) error {
	if !to.Valid() {
		return fieldError("status", "Must be one of: pending, booked, rejected, cancelled")
	}
	if res.Status == to {
		return fmt.Errorf("%w: reservation is already %s", ErrConflict, to)
	}
	if res.Status.IsTerminal() {
		return fmt.Errorf("%w: reservation is %s and cannot change to %s", ErrConflict, res.Status, to)
	}
	if to == entity.ReservationStatusBooked && res.PaymentStatus == entity.PaymentStatusFailed {
		return fmt.Errorf("%w: cannot book a reservation whose payment failed", ErrConflict)
	}

	res.Status = to
	return nil
}

func (s *reservationService) notifyStatus(ctx context.Context, res *entity.Reservation) {
	user, err := s.repo.User.FindByID(ctx, res.UserID)
	if err != nil || user == nil {
		s.log.Warn("Skipping status mail, user not found",
			zap.Error(err),
			zap.String("user_id", res.UserID.String()),
		)
		return
	}

	body := fmt.Sprintf("Hello %s,\n\nYour reservation for %s from %s to %s is now %s.\n",
		user.Username,
		res.TourTitle,
		res.StartDate.Format(request.DateLayout),
		res.EndDate.Format(request.DateLayout),
		res.Status,
	)
	if err := s.mail.Send(ctx, mailer.Message{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Reservation %s", res.Status),
		Body:    body,
	}); err != nil {
		s.log.Warn("Failed to send status mail", zap.Error(err), zap.String("reservation_id", res.ID.String()))
	}
}

// ==================== PAYMENT ====================

func (s *reservationService) RecordPayment(ctx context.Context, reservationID string, req *request.RecordPaymentRequest) (*response.ReservationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseUUID("id", reservationID)
	if err != nil {
		return nil, err
	}

	res, err := s.recordPaymentResult(ctx, id, strings.TrimSpace(req.Reference), *req.Succeeded)
	if err != nil {
		return nil, err
	}

	resp := response.ReservationToResponse(res)
	return &resp, nil
}

// recordPaymentResult stores the outcome of a charge. It never touches the
// reservation status. Repeating the last recorded outcome for the same
// reference is a no-op.
func (s *reservationService) recordPaymentResult(ctx context.Context, id uuid.UUID, ref string, succeeded bool) (*entity.Reservation, error) {
	next := entity.PaymentStatusFailed
	if succeeded {
		next = entity.PaymentStatusPaid
	}

	var res *entity.Reservation
	changed := false

	err := s.repo.Tx.InTx(ctx, pgx.ReadCommitted, func(tx *repository.Repository) error {
		var err error
		res, err = tx.Reservation.LockByID(ctx, id)
		if err != nil {
			return fmt.Errorf("lock reservation: %w", err)
		}
		if res == nil {
			return notFound("reservation", id)
		}

		if res.PaymentStatus == next && res.PaymentRef != nil && *res.PaymentRef == ref {
			return nil
		}
		if !res.PaymentStatus.CanMoveTo(next) {
			return fmt.Errorf("%w: payment is already %s", ErrConflict, res.PaymentStatus)
		}

		res.PaymentStatus = next
		res.PaymentRef = &ref
		res.UpdatedAt = time.Now()
		changed = true

		return tx.Reservation.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.log.Info("Payment result recorded",
			zap.String("reservation_id", id.String()),
			zap.String("reference", ref),
			zap.String("payment_status", string(next)),
		)
	}

	return res, nil
}

func (s *reservationService) HandlePaymentWebhook(ctx context.Context, payload []byte, signature string) error {
	result, err := s.processor.ParseWebhook(payload, signature)
	if errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrWebhookDisabled) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		// authentic but undecodable; redelivery would fail the same way
		s.log.Error("Dropping unreadable payment webhook", zap.Error(err))
		return nil
	}
	if result == nil {
		return nil
	}

	reservationID := result.ReservationID
	if reservationID == uuid.Nil {
		res, err := s.repo.Reservation.FindByPaymentRef(ctx, result.Reference)
		if err != nil {
			return fmt.Errorf("find reservation by payment reference: %w", err)
		}
		if res == nil {
			s.log.Warn("Ignoring payment webhook for unknown reference", zap.String("reference", result.Reference))
			return nil
		}
		reservationID = res.ID
	}

	res, err := s.recordPaymentResult(ctx, reservationID, result.Reference, result.Succeeded)
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		// acknowledged so the processor stops redelivering
		s.log.Warn("Ignoring payment webhook",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
			zap.String("reference", result.Reference),
		)
		return nil
	}
	if err != nil {
		return err
	}

	if result.Succeeded && s.config.Stripe.AutoConfirm && res.Status == entity.ReservationStatusPending {
		_, err := s.setStatus(ctx, res.ID, entity.ReservationStatusBooked, "confirmed after successful payment", nil)
		if err != nil && !errors.Is(err, ErrConflict) {
			return err
		}
	}

	return nil
}

func (s *reservationService) Delete(ctx context.Context, reservationID string) error {
	res, err := s.find(ctx, reservationID)
	if err != nil {
		return err
	}

	if err := s.repo.Reservation.Delete(ctx, res.ID); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}

	s.log.Info("Reservation deleted", zap.String("reservation_id", res.ID.String()))
	return nil
}
