package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns recipients, messages and mailings.
type User struct {
	Base
	Email           string     `json:"email" db:"email"`
	Username        string     `json:"username" db:"username"`
	FirstName       string     `json:"first_name" db:"first_name"`
	LastName        string     `json:"last_name" db:"last_name"`
	Phone           *string    `json:"phone,omitempty" db:"phone"`
	Country         *string    `json:"country,omitempty" db:"country"`
	PasswordHash    string     `json:"-" db:"password_hash"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	IsSuperuser     bool       `json:"is_superuser" db:"is_superuser"`
	Token           *string    `json:"-" db:"token"`
	ResetToken      *string    `json:"-" db:"reset_token"`
	ResetTokenUntil *time.Time `json:"-" db:"reset_token_until"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
}

// DisplayName returns "First Last", falling back to the username.
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type NewPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	Username  *string `json:"username" validate:"omitempty,max=50"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Phone     *string `json:"phone" validate:"omitempty,max=15"`
	Country   *string `json:"country" validate:"omitempty,max=65"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type TokenClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}
