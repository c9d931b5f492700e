package natsrpc

import "github.com/dkuznecov/authgate/internal/server/models"

// Wire DTOs. Failure replies carry explicit nulls plus a message, which is
// why the nullable fields are pointers.

type LoginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        *string `json:"token"`
	RefreshToken *string `json:"refreshToken"`
	Message      string  `json:"message,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	User         *models.User `json:"user"`
	Token        *string      `json:"token,omitempty"`
	RefreshToken *string      `json:"refreshToken,omitempty"`
	Message      string       `json:"message,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	Token        *string `json:"token,omitempty"`
	RefreshToken *string `json:"refreshToken,omitempty"`
	Message      string  `json:"message,omitempty"`
}

type VerifyJWTRequest struct {
	Token string `json:"token"`
}

type GetUserByIDRequest struct {
	UserID string `json:"userId"`
}
