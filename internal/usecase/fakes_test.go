package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/internal/data/repository"
	"travel-agency/pkg/mailer"
	"travel-agency/pkg/payment"
	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// store is an in-memory stand-in for the database shared by every fake repo.
type store struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	profiles     map[uuid.UUID]*entity.UserProfile
	sessions     map[string]*entity.Session
	otps         []*entity.OTP
	destinations map[uuid.UUID]*entity.Destination
	destImages   []*entity.DestinationImage
	tours        map[uuid.UUID]*entity.Tour
	promotions   map[uuid.UUID]*entity.Promotion
	reservations map[uuid.UUID]*entity.Reservation
	sections     map[uuid.UUID]*entity.Section
	posts        map[uuid.UUID]*entity.BlogPost
	postImages   []*entity.BlogImage
	comments     []*entity.BlogComment
	contacts     []*entity.ContactMessage

	// ops records destructive calls in order so cascades can be asserted.
	ops []string
}

func newStore() *store {
	return &store{
		users:        map[uuid.UUID]*entity.User{},
		profiles:     map[uuid.UUID]*entity.UserProfile{},
		sessions:     map[string]*entity.Session{},
		destinations: map[uuid.UUID]*entity.Destination{},
		tours:        map[uuid.UUID]*entity.Tour{},
		promotions:   map[uuid.UUID]*entity.Promotion{},
		reservations: map[uuid.UUID]*entity.Reservation{},
		sections:     map[uuid.UUID]*entity.Section{},
		posts:        map[uuid.UUID]*entity.BlogPost{},
	}
}

func (s *store) record(op string) { s.ops = append(s.ops, op) }

func (s *store) repository() *repository.Repository {
	repo := &repository.Repository{
		User:             &fakeUserRepo{s: s},
		Profile:          &fakeProfileRepo{s: s},
		Session:          &fakeSessionRepo{s: s},
		OTP:              &fakeOTPRepo{s: s},
		Destination:      &fakeDestinationRepo{s: s},
		DestinationImage: &fakeDestinationImageRepo{s: s},
		Tour:             &fakeTourRepo{s: s},
		Promotion:        &fakePromotionRepo{s: s},
		Reservation:      &fakeReservationRepo{s: s},
		Section:          &fakeSectionRepo{s: s},
		BlogPost:         &fakeBlogPostRepo{s: s},
		BlogImage:        &fakeBlogImageRepo{s: s},
		BlogComment:      &fakeBlogCommentRepo{s: s},
		Contact:          &fakeContactRepo{s: s},
	}
	repo.Tx = &fakeTx{repo: repo}
	return repo
}

type fakeTx struct {
	repo  *repository.Repository
	calls int
}

func (t *fakeTx) InTx(_ context.Context, _ pgx.TxIsoLevel, fn func(repo *repository.Repository) error) error {
	t.calls++
	return fn(t.repo)
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}

// ==================== IDENTITY ====================

type fakeUserRepo struct{ s *store }

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Email, u.Email) || x.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	r.s.users[u.ID] = copyOf(u)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok || u.IsDeleted() {
		return nil, nil
	}
	return copyOf(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && !u.IsDeleted() {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username && !u.IsDeleted() {
			return copyOf(u), nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) active() []*entity.User {
	var out []*entity.User
	for _, u := range r.s.users {
		if !u.IsDeleted() {
			out = append(out, copyOf(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (r *fakeUserRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.active(), limit, offset), nil
}

func (r *fakeUserRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.active())), nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[u.ID] = copyOf(u)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("user.delete")
	u, ok := r.s.users[id]
	if !ok {
		return errors.New("user not found")
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	return nil
}

type fakeProfileRepo struct{ s *store }

func (r *fakeProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.profiles[userID]), nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *entity.UserProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if existing, ok := r.s.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	r.s.profiles[p.UserID] = copyOf(p)
	return nil
}

func (r *fakeProfileRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("profile.delete")
	delete(r.s.profiles, userID)
	return nil
}

type fakeSessionRepo struct{ s *store }

func (r *fakeSessionRepo) Create(_ context.Context, sess *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sessions[sess.Token.String()] = copyOf(sess)
	return nil
}

func (r *fakeSessionRepo) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sess, ok := r.s.sessions[token]
	if !ok || !sess.Active(time.Now()) {
		return nil, nil
	}
	return copyOf(sess), nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sess, ok := r.s.sessions[token]; ok {
		sess.Revoke(time.Now())
	}
	return nil
}

func (r *fakeSessionRepo) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("session.revoke_all")
	now := time.Now()
	for _, sess := range r.s.sessions {
		if sess.UserID == userID {
			sess.Revoke(now)
		}
	}
	return nil
}

func (r *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k, sess := range r.s.sessions {
		if sess.ExpiresAt.Before(time.Now()) {
			delete(r.s.sessions, k)
			n++
		}
	}
	return n, nil
}

type fakeOTPRepo struct{ s *store }

func (r *fakeOTPRepo) Create(_ context.Context, o *entity.OTP) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.otps = append(r.s.otps, copyOf(o))
	return nil
}

func (r *fakeOTPRepo) FindValidOTP(_ context.Context, email, code string, otpType entity.OTPType) (*entity.OTP, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.otps {
		if o.Email == email && o.Redeemable(code, otpType, time.Now()) {
			return copyOf(o), nil
		}
	}
	return nil, nil
}

func (r *fakeOTPRepo) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.otps {
		if o.ID == id {
			o.IsUsed = true
		}
	}
	return nil
}

func (r *fakeOTPRepo) DeleteExpired(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept []*entity.OTP
	for _, o := range r.s.otps {
		if o.ExpiresAt.After(time.Now()) {
			kept = append(kept, o)
		}
	}
	n := int64(len(r.s.otps) - len(kept))
	r.s.otps = kept
	return n, nil
}

// ==================== CATALOG ====================

type fakeDestinationRepo struct{ s *store }

func (r *fakeDestinationRepo) Create(_ context.Context, d *entity.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.destinations[d.ID] = copyOf(d)
	return nil
}

func (r *fakeDestinationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Destination, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.destinations[id]), nil
}

func (r *fakeDestinationRepo) sorted() []*entity.Destination {
	var out []*entity.Destination
	for _, d := range r.s.destinations {
		out = append(out, copyOf(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeDestinationRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.Destination, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.sorted(), limit, offset), nil
}

func (r *fakeDestinationRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.destinations)), nil
}

func (r *fakeDestinationRepo) Update(_ context.Context, d *entity.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.destinations[d.ID] = copyOf(d)
	return nil
}

func (r *fakeDestinationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("destination.delete")
	for _, t := range r.s.tours {
		if t.DestinationID == id {
			return errors.New("restrict: destination still has tours")
		}
	}
	delete(r.s.destinations, id)
	return nil
}

type fakeDestinationImageRepo struct{ s *store }

func (r *fakeDestinationImageRepo) Create(_ context.Context, img *entity.DestinationImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.destImages = append(r.s.destImages, copyOf(img))
	return nil
}

func (r *fakeDestinationImageRepo) FindByDestinationID(_ context.Context, id uuid.UUID) ([]*entity.DestinationImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.DestinationImage
	for _, img := range r.s.destImages {
		if img.DestinationID == id {
			out = append(out, copyOf(img))
		}
	}
	return out, nil
}

func (r *fakeDestinationImageRepo) DeleteByDestinationID(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("destination_image.delete")
	var kept []*entity.DestinationImage
	for _, img := range r.s.destImages {
		if img.DestinationID != id {
			kept = append(kept, img)
		}
	}
	r.s.destImages = kept
	return nil
}

type fakeTourRepo struct {
	s     *store
	locks int
}

func (r *fakeTourRepo) Create(_ context.Context, t *entity.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.destinations[t.DestinationID]; !ok {
		return errors.New("foreign key: destination missing")
	}
	r.s.tours[t.ID] = copyOf(t)
	return nil
}

func (r *fakeTourRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.tours[id]), nil
}

func (r *fakeTourRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Tour, error) {
	r.locks++
	return r.FindByID(ctx, id)
}

func (r *fakeTourRepo) filtered(f repository.TourFilter) []*entity.Tour {
	var out []*entity.Tour
	for _, t := range r.s.tours {
		if f.DestinationID != nil && t.DestinationID != *f.DestinationID {
			continue
		}
		if f.PromotionOnly && !t.IsPromotion {
			continue
		}
		out = append(out, copyOf(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (r *fakeTourRepo) FindAll(_ context.Context, f repository.TourFilter, limit, offset int) ([]*entity.Tour, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.filtered(f), limit, offset), nil
}

func (r *fakeTourRepo) CountAll(_ context.Context, f repository.TourFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.filtered(f))), nil
}

func (r *fakeTourRepo) FindIDsByDestinationID(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uuid.UUID
	for _, t := range r.s.tours {
		if t.DestinationID == id {
			ids = append(ids, t.ID)
		}
	}
	return ids, nil
}

func (r *fakeTourRepo) Update(_ context.Context, t *entity.Tour) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tours[t.ID] = copyOf(t)
	return nil
}

func (r *fakeTourRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("tour.delete")
	for _, res := range r.s.reservations {
		if res.TourID == id {
			return errors.New("restrict: tour still has reservations")
		}
	}
	delete(r.s.tours, id)
	return nil
}

type fakePromotionRepo struct{ s *store }

func (r *fakePromotionRepo) Create(_ context.Context, p *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.promotions[p.ID] = copyOf(p)
	return nil
}

func (r *fakePromotionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.promotions[id]), nil
}

func (r *fakePromotionRepo) FindAll(context.Context) ([]*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Promotion
	for _, p := range r.s.promotions {
		out = append(out, copyOf(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakePromotionRepo) FindActiveForTour(_ context.Context, tourID uuid.UUID) ([]*entity.Promotion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Promotion
	for _, p := range r.s.promotions {
		if p.AppliesTo(tourID) {
			out = append(out, copyOf(p))
		}
	}
	return out, nil
}

func (r *fakePromotionRepo) Update(_ context.Context, p *entity.Promotion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.promotions[p.ID] = copyOf(p)
	return nil
}

func (r *fakePromotionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.promotions, id)
	return nil
}

// ==================== BOOKING ====================

type fakeReservationRepo struct {
	s     *store
	locks int
}

func (r *fakeReservationRepo) Create(_ context.Context, res *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reservations[res.ID] = copyOf(res)
	return nil
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.reservations[id]), nil
}

func (r *fakeReservationRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	r.locks++
	return r.FindByID(ctx, id)
}

func (r *fakeReservationRepo) FindByPaymentRef(_ context.Context, ref string) (*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, res := range r.s.reservations {
		if res.PaymentRef != nil && *res.PaymentRef == ref {
			return copyOf(res), nil
		}
	}
	return nil, nil
}

func (r *fakeReservationRepo) matching(keep func(*entity.Reservation) bool) []*entity.Reservation {
	var out []*entity.Reservation
	for _, res := range r.s.reservations {
		if keep(res) {
			out = append(out, copyOf(res))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeReservationRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(func(res *entity.Reservation) bool { return res.UserID == userID }), limit, offset), nil
}

func (r *fakeReservationRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(func(res *entity.Reservation) bool { return res.UserID == userID }))), nil
}

func statusFilter(status *entity.ReservationStatus) func(*entity.Reservation) bool {
	return func(res *entity.Reservation) bool { return status == nil || res.Status == *status }
}

func (r *fakeReservationRepo) FindAll(_ context.Context, status *entity.ReservationStatus, limit, offset int) ([]*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(statusFilter(status)), limit, offset), nil
}

func (r *fakeReservationRepo) CountAll(_ context.Context, status *entity.ReservationStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(statusFilter(status)))), nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *entity.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.reservations[res.ID] = copyOf(res)
	return nil
}

func (r *fakeReservationRepo) SetPaymentRef(_ context.Context, id uuid.UUID, ref string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %s not found", id)
	}
	res.PaymentRef = &ref
	res.UpdatedAt = at
	return nil
}

func (r *fakeReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.reservations, id)
	return nil
}

func (r *fakeReservationRepo) FindActiveOverlapping(_ context.Context, tourID uuid.UUID, start, end time.Time) ([]*entity.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.matching(func(res *entity.Reservation) bool {
		return res.TourID == tourID && res.Status.IsActive() &&
			res.StartDate.Before(end) && res.EndDate.After(start)
	}), nil
}

func (r *fakeReservationRepo) deleteWhere(op string, match func(*entity.Reservation) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record(op)
	var n int64
	for id, res := range r.s.reservations {
		if match(res) {
			delete(r.s.reservations, id)
			n++
		}
	}
	return n
}

func (r *fakeReservationRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return r.deleteWhere("reservation.delete_by_user", func(res *entity.Reservation) bool { return res.UserID == userID }), nil
}

func (r *fakeReservationRepo) DeleteByTourID(_ context.Context, tourID uuid.UUID) (int64, error) {
	return r.deleteWhere("reservation.delete_by_tour", func(res *entity.Reservation) bool { return res.TourID == tourID }), nil
}

// ==================== CONTENT ====================

type fakeSectionRepo struct{ s *store }

func (r *fakeSectionRepo) Create(_ context.Context, sec *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.sections {
		if x.Slug == sec.Slug {
			return repository.ErrDuplicate
		}
	}
	r.s.sections[sec.ID] = copyOf(sec)
	return nil
}

func (r *fakeSectionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.sections[id]), nil
}

func (r *fakeSectionRepo) FindBySlug(_ context.Context, slug string) (*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.sections {
		if x.Slug == slug {
			return copyOf(x), nil
		}
	}
	return nil, nil
}

func (r *fakeSectionRepo) FindAll(_ context.Context, navOnly bool) ([]*entity.Section, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Section
	for _, x := range r.s.sections {
		if navOnly && !x.ShowInNav {
			continue
		}
		out = append(out, copyOf(x))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

func (r *fakeSectionRepo) Update(_ context.Context, sec *entity.Section) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.sections {
		if x.Slug == sec.Slug && x.ID != sec.ID {
			return repository.ErrDuplicate
		}
	}
	r.s.sections[sec.ID] = copyOf(sec)
	return nil
}

func (r *fakeSectionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sections, id)
	return nil
}

type fakeBlogPostRepo struct{ s *store }

func (r *fakeBlogPostRepo) Create(_ context.Context, p *entity.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.posts {
		if x.Slug == p.Slug {
			return repository.ErrDuplicate
		}
	}
	r.s.posts[p.ID] = copyOf(p)
	return nil
}

func (r *fakeBlogPostRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.BlogPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyOf(r.s.posts[id]), nil
}

func (r *fakeBlogPostRepo) FindBySlug(_ context.Context, slug string) (*entity.BlogPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.posts {
		if x.Slug == slug {
			return copyOf(x), nil
		}
	}
	return nil, nil
}

func (r *fakeBlogPostRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.BlogPost, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BlogPost
	for _, x := range r.s.posts {
		out = append(out, copyOf(x))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *fakeBlogPostRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.posts)), nil
}

func (r *fakeBlogPostRepo) Update(_ context.Context, p *entity.BlogPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.posts {
		if x.Slug == p.Slug && x.ID != p.ID {
			return repository.ErrDuplicate
		}
	}
	r.s.posts[p.ID] = copyOf(p)
	return nil
}

func (r *fakeBlogPostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("post.delete")
	for _, c := range r.s.comments {
		if c.PostID == id {
			return errors.New("restrict: post still has comments")
		}
	}
	delete(r.s.posts, id)
	return nil
}

type fakeBlogImageRepo struct{ s *store }

func (r *fakeBlogImageRepo) Create(_ context.Context, img *entity.BlogImage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.postImages = append(r.s.postImages, copyOf(img))
	return nil
}

func (r *fakeBlogImageRepo) FindByPostID(_ context.Context, postID uuid.UUID) ([]*entity.BlogImage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BlogImage
	for _, img := range r.s.postImages {
		if img.PostID == postID {
			out = append(out, copyOf(img))
		}
	}
	return out, nil
}

func (r *fakeBlogImageRepo) DeleteByPostID(_ context.Context, postID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record("post_image.delete")
	var kept []*entity.BlogImage
	for _, img := range r.s.postImages {
		if img.PostID != postID {
			kept = append(kept, img)
		}
	}
	r.s.postImages = kept
	return nil
}

type fakeBlogCommentRepo struct{ s *store }

func (r *fakeBlogCommentRepo) Create(_ context.Context, c *entity.BlogComment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.comments = append(r.s.comments, copyOf(c))
	return nil
}

func (r *fakeBlogCommentRepo) byPost(postID uuid.UUID) []*entity.BlogComment {
	var out []*entity.BlogComment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			cc := copyOf(c)
			if u, ok := r.s.users[c.UserID]; ok {
				cc.Username = u.Username
			}
			out = append(out, cc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *fakeBlogCommentRepo) FindByPostID(_ context.Context, postID uuid.UUID, limit, offset int) ([]*entity.BlogComment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.byPost(postID), limit, offset), nil
}

func (r *fakeBlogCommentRepo) CountByPostID(_ context.Context, postID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.byPost(postID))), nil
}

func (r *fakeBlogCommentRepo) deleteWhere(op string, match func(*entity.BlogComment) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.record(op)
	var kept []*entity.BlogComment
	for _, c := range r.s.comments {
		if !match(c) {
			kept = append(kept, c)
		}
	}
	r.s.comments = kept
}

func (r *fakeBlogCommentRepo) DeleteByPostID(_ context.Context, postID uuid.UUID) error {
	r.deleteWhere("comment.delete_by_post", func(c *entity.BlogComment) bool { return c.PostID == postID })
	return nil
}

func (r *fakeBlogCommentRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	r.deleteWhere("comment.delete_by_user", func(c *entity.BlogComment) bool { return c.UserID == userID })
	return nil
}

type fakeContactRepo struct{ s *store }

func (r *fakeContactRepo) Create(_ context.Context, m *entity.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contacts = append(r.s.contacts, copyOf(m))
	return nil
}

func (r *fakeContactRepo) FindAll(_ context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.s.contacts, limit, offset), nil
}

func (r *fakeContactRepo) CountAll(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.contacts)), nil
}

// ==================== COLLABORATORS ====================

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

type fakeProcessor struct {
	intent    *payment.Intent
	intentErr error
	result    *payment.Result
	parseErr  error
	amounts   []int64
	// onIntent runs while the intent is being created, after the
	// reservation has been committed.
	onIntent func(reservationID uuid.UUID)
}

func (p *fakeProcessor) Name() string { return "fake" }

func (p *fakeProcessor) CreateIntent(_ context.Context, reservationID uuid.UUID, amountCents int64) (*payment.Intent, error) {
	p.amounts = append(p.amounts, amountCents)
	if p.onIntent != nil {
		p.onIntent(reservationID)
	}
	return p.intent, p.intentErr
}

func (p *fakeProcessor) ParseWebhook(_ []byte, _ string) (*payment.Result, error) {
	return p.result, p.parseErr
}

type fakeMedia struct {
	saved []string
	err   error
}

func (m *fakeMedia) Save(_ context.Context, folder, filename string, body io.Reader, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	url := "/media/" + folder + "/" + filename
	m.saved = append(m.saved, url)
	return url, nil
}

func testConfig() *utils.Config {
	return &utils.Config{
		Session: utils.SessionConfig{ExpiryHours: 24},
		OTP:     utils.OTPConfig{Length: 6, ExpiryMinutes: 5},
		Stripe:  utils.StripeConfig{Currency: "eur", AutoConfirm: true},
		Email:   utils.EmailConfig{Operator: "ops@example.com"},
	}
}

// ==================== SEED HELPERS ====================

func seedUser(s *store, username string) *entity.User {
	now := time.Now()
	u := &entity.User{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Username: username,
		Email:    username + "@example.com",
		Role:     entity.RoleCustomer,
		IsActive: true,
	}
	s.users[u.ID] = u
	return u
}

func seedDestination(s *store, name string) *entity.Destination {
	d := &entity.Destination{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		Name:         name,
	}
	s.destinations[d.ID] = d
	return d
}

func seedTour(s *store, dest *entity.Destination, price float64, capacity int) *entity.Tour {
	t := &entity.Tour{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		DestinationID: dest.ID,
		Title:         dest.Name + " tour",
		PricePerNight: price,
		Capacity:      capacity,
	}
	s.tours[t.ID] = t
	return t
}

func seedReservation(s *store, user *entity.User, tour *entity.Tour, start, end string, persons int, status entity.ReservationStatus) *entity.Reservation {
	sd, _ := time.Parse("2006-01-02", start)
	ed, _ := time.Parse("2006-01-02", end)
	r := &entity.Reservation{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:        user.ID,
		TourID:        tour.ID,
		StartDate:     sd,
		EndDate:       ed,
		NumPersons:    persons,
		Status:        status,
		PaymentMethod: entity.PaymentMethodCash,
		PaymentStatus: entity.PaymentStatusUnpaid,
		TourTitle:     tour.Title,
	}
	s.reservations[r.ID] = r
	return r
}

var nopLog = zap.NewNop()
