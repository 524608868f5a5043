package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTPType string

const (
	OTPTypeEmailVerification OTPType = "email_verification"
	OTPTypePasswordReset     OTPType = "password_reset"
)

// OTP is a one-time code mailed to the customer. A code is bound to one
// email and one purpose.
type OTP struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Email     string    `db:"email"`
	OTPCode   string    `db:"otp_code"`
	OTPType   OTPType   `db:"otp_type"`
	ExpiresAt time.Time `db:"expires_at"`
	IsUsed    bool      `db:"is_used"`
}

func NewOTP(user *User, code string, otpType OTPType, ttl time.Duration, now time.Time) *OTP {
	return &OTP{
		BaseSimple: NewBaseSimple(now),
		UserID:     user.ID,
		Email:      user.Email,
		OTPCode:    code,
		OTPType:    otpType,
		ExpiresAt:  now.Add(ttl),
	}
}

// Redeemable reports whether code may still be exchanged for otpType.
func (o *OTP) Redeemable(code string, otpType OTPType, now time.Time) bool {
	return !o.IsUsed && o.OTPCode == code && o.OTPType == otpType && now.Before(o.ExpiresAt)
}
