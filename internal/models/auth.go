package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest holds the registration payload. School is optional and
// only meaningful for teacher and parent registrations; other roles ignore
// it.
type RegisterRequest struct {
	Username        string  `json:"username" validate:"required,min=3,max=150"`
	Email           string  `json:"email" validate:"omitempty,email"`
	FullName        string  `json:"full_name" validate:"required"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirm_password" validate:"required,eqfield=Password"`
	Role            string  `json:"role" validate:"required"`
	SchoolID        *string `json:"school_id" validate:"omitempty,uuid4"`
	IP              string  `json:"-"`
	UserAgent       string  `json:"-"`
}

// RegisterResponse returns the created principal, issued tokens and the
// dashboard route the client should land on.
type RegisterResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	Dashboard    string    `json:"dashboard"`
	IssuedAt     time.Time `json:"issued_at"`
}

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens, user info and dashboard route.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	Dashboard    string    `json:"dashboard"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	FullName string  `json:"full_name"`
	Role     Role    `json:"role"`
	SchoolID *string `json:"school_id,omitempty"`
}

// JWTClaims represents the JWT payload for access tokens. SchoolID rides
// along so school-scoped queries never need a second user lookup.
type JWTClaims struct {
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Role     Role    `json:"role"`
	SchoolID *string `json:"school_id,omitempty"`
	FullName string  `json:"full_name"`
	jwt.RegisteredClaims
}
