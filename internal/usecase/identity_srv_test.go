package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel-agency/internal/data/entity"
	"travel-agency/internal/dto/request"
	"travel-agency/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncAuth(s *store, mail *fakeMailer) *authService {
	svc := NewAuthService(s.repository(), mail, testConfig(), nopLog).(*authService)
	svc.async = func(fn func()) { fn() }
	return svc
}

func seedLogin(t *testing.T, s *store, username, password string) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := seedUser(s, username)
	u.PasswordHash = hash
	return u
}

// ==================== AUTH ====================

func TestRegister(t *testing.T) {
	s := newStore()
	mail := &fakeMailer{}
	svc := newSyncAuth(s, mail)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &request.RegisterRequest{
		Username: " alice ",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, entity.RoleCustomer, resp.Role)
	assert.False(t, resp.IsVerified)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, s.sessions, resp.Token)

	require.Len(t, s.otps, 1)
	assert.Equal(t, entity.OTPTypeEmailVerification, s.otps[0].OTPType)
	assert.Len(t, s.otps[0].OTPCode, 6)

	sent := mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, sent[0].To)
	assert.Contains(t, sent[0].Body, s.otps[0].OTPCode)

	stored := s.users[uuid.MustParse(resp.UserID)]
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret123", stored.PasswordHash))

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "other", Email: "alice@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "alice", Email: "new@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Register(ctx, &request.RegisterRequest{Username: "x", Email: "bad", Password: "1"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "username")
		assert.Contains(t, verr.Fields, "email")
		assert.Contains(t, verr.Fields, "password")
	})
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	s := newStore()
	svc := newSyncAuth(s, &fakeMailer{err: errors.New("smtp down")})

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

func TestLogin(t *testing.T) {
	s := newStore()
	svc := newSyncAuth(s, &fakeMailer{})
	ctx := context.Background()
	user := seedLogin(t, s, "alice", "secret123")

	byEmail, err := svc.Login(ctx, &request.LoginRequest{Username: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), byEmail.UserID)

	byName, err := svc.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEqual(t, byEmail.Token, byName.Token, "every login opens a new session")

	_, err = svc.Login(ctx, &request.LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, &request.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	user.IsActive = false
	_, err = svc.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret123"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLogout(t *testing.T) {
	s := newStore()
	svc := newSyncAuth(s, &fakeMailer{})
	ctx := context.Background()
	seedLogin(t, s, "alice", "secret123")

	resp, err := svc.Login(ctx, &request.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	assert.NotNil(t, s.sessions[resp.Token].RevokedAt)

	assert.ErrorIs(t, svc.Logout(ctx, "garbage"), ErrUnauthorized)
}

func TestVerifyEmail(t *testing.T) {
	s := newStore()
	mail := &fakeMailer{}
	svc := newSyncAuth(s, mail)
	ctx := context.Background()
	user := seedUser(s, "alice")

	require.NoError(t, svc.SendOTP(ctx, &request.SendOTPRequest{Email: user.Email, Type: "email_verification"}))
	require.Len(t, s.otps, 1)
	code := s.otps[0].OTPCode

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err := svc.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: user.Email, OTP: wrong})
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, s.users[user.ID].EmailVerified)

	require.NoError(t, svc.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: user.Email, OTP: code}))
	assert.True(t, s.users[user.ID].EmailVerified)
	assert.True(t, s.otps[0].IsUsed)

	err = svc.VerifyEmail(ctx, &request.VerifyEmailRequest{Email: user.Email, OTP: code})
	assert.ErrorIs(t, err, ErrValidation, "a code works once")

	err = svc.SendOTP(ctx, &request.SendOTPRequest{Email: user.Email, Type: "email_verification"})
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.SendOTP(ctx, &request.SendOTPRequest{Email: user.Email, Type: "password_reset"}))
	assert.Len(t, mail.messages(), 2)

	err = svc.SendOTP(ctx, &request.SendOTPRequest{Email: "ghost@example.com", Type: "password_reset"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyEmailRejectsExpiredCode(t *testing.T) {
	s := newStore()
	svc := newSyncAuth(s, &fakeMailer{})
	user := seedUser(s, "alice")
	s.otps = append(s.otps, &entity.OTP{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now().Add(-time.Hour)},
		UserID:     user.ID,
		Email:      user.Email,
		OTPCode:    "123456",
		OTPType:    entity.OTPTypeEmailVerification,
		ExpiresAt:  time.Now().Add(-time.Minute),
	})

	err := svc.VerifyEmail(context.Background(), &request.VerifyEmailRequest{Email: user.Email, OTP: "123456"})
	assert.ErrorIs(t, err, ErrValidation)
}

// ==================== USER ====================

func TestProfile(t *testing.T) {
	s := newStore()
	svc := NewUserService(s.repository(), nopLog)
	ctx := context.Background()
	user := seedUser(s, "alice")

	empty, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", empty.Username)
	assert.Empty(t, empty.Country)

	_, err = svc.UpdateProfile(ctx, user.ID, &request.UpdateProfileRequest{Phone: "+351 900", Country: " Portugal "})
	require.NoError(t, err)
	first := s.profiles[user.ID].ID

	got, err := svc.UpdateProfile(ctx, user.ID, &request.UpdateProfileRequest{Country: "Spain", PostalCode: "28001"})
	require.NoError(t, err)
	assert.Equal(t, "Spain", got.Country)
	assert.Equal(t, first, s.profiles[user.ID].ID, "upsert keeps one row per user")

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAllUsers(t *testing.T) {
	s := newStore()
	svc := NewUserService(s.repository(), nopLog)
	for _, name := range []string{"carol", "alice", "bob"} {
		seedUser(s, name)
	}

	got, err := svc.GetAllUsers(context.Background(), &request.PaginatedRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "carol", got.Data[0].Username)
	assert.Equal(t, int64(3), got.Pagination.Total)
	assert.Equal(t, 2, got.Pagination.TotalPages)
}

func TestDeleteUserCascades(t *testing.T) {
	s := newStore()
	svc := NewUserService(s.repository(), nopLog)
	ctx := context.Background()

	alice := seedUser(s, "alice")
	bob := seedUser(s, "bob")
	tour := seedTour(s, seedDestination(s, "Rome"), 50, 0)
	seedReservation(s, alice, tour, "2030-05-01", "2030-05-04", 2, entity.ReservationStatusBooked)
	kept := seedReservation(s, bob, tour, "2030-05-01", "2030-05-04", 1, entity.ReservationStatusPending)
	s.profiles[alice.ID] = &entity.UserProfile{UserID: alice.ID, Country: "Italy"}
	s.sessions["a"] = &entity.Session{UserID: alice.ID, ExpiresAt: time.Now().Add(time.Hour)}
	s.sessions["b"] = &entity.Session{UserID: bob.ID, ExpiresAt: time.Now().Add(time.Hour)}
	s.comments = append(s.comments,
		&entity.BlogComment{UserID: alice.ID, Content: "mine"},
		&entity.BlogComment{UserID: bob.ID, Content: "theirs"},
	)

	require.NoError(t, svc.DeleteUser(ctx, alice.ID.String()))

	assert.Equal(t, []string{
		"reservation.delete_by_user",
		"comment.delete_by_user",
		"profile.delete",
		"session.revoke_all",
		"user.delete",
	}, s.ops)
	assert.NotNil(t, s.users[alice.ID].DeletedAt)
	assert.Len(t, s.reservations, 1)
	assert.Contains(t, s.reservations, kept.ID)
	assert.NotContains(t, s.profiles, alice.ID)
	assert.NotNil(t, s.sessions["a"].RevokedAt)
	assert.Nil(t, s.sessions["b"].RevokedAt)
	require.Len(t, s.comments, 1)
	assert.Equal(t, "theirs", s.comments[0].Content)

	assert.ErrorIs(t, svc.DeleteUser(ctx, alice.ID.String()), ErrNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, "nope"), ErrValidation)
}
