package entity

import "github.com/google/uuid"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Username      string   `db:"username"`
	Email         string   `db:"email"`
	PasswordHash  string   `db:"password"`
	Phone         *string  `db:"phone"`
	Role          UserRole `db:"role"`
	EmailVerified bool     `db:"email_verified"`
	IsActive      bool     `db:"is_active"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserProfile holds the contact details a customer fills in after signing up.
type UserProfile struct {
	BaseNoDelete
	UserID     uuid.UUID `db:"user_id"`
	Phone      string    `db:"phone"`
	Country    string    `db:"country"`
	PostalCode string    `db:"postal_code"`
}
