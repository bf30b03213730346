package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	DefaultProfilePicture = "user.jpg"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID             string    `bun:"id,pk" json:"id"`
	FullName       string    `bun:"full_name,notnull" json:"fullName"`
	Username       string    `bun:"username,unique,notnull" json:"username"`
	Email          string    `bun:"email,unique,notnull" json:"email"`
	Password       string    `bun:"password,notnull" json:"-"`
	Role           string    `bun:"role,notnull" json:"role"`
	ProfilePicture string    `bun:"profile_picture" json:"profilePicture"`
	IsActive       bool      `bun:"is_active,notnull" json:"isActive"`
	ActivationCode string    `bun:"activation_code,nullzero" json:"-"`
	RefreshToken   string    `bun:"refresh_token,nullzero" json:"-"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"-"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"-"`
}

type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,has_upper,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type ActivationRequest struct {
	Code string `json:"code" validate:"required"`
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,has_upper,has_digit"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type UpdateProfileRequest struct {
	FullName       string `json:"fullName" validate:"required"`
	ProfilePicture string `json:"profilePicture"`
}

// TokenPair is returned on login; the refresh half travels in a cookie.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"-"`
}

// UserRegisteredEvent is published after registration for the mailer.
type UserRegisteredEvent struct {
	UserID         string    `json:"userId"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	ActivationCode string    `json:"activationCode"`
	CreatedAt      time.Time `json:"createdAt"`
}
