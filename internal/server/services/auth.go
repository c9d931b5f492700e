// Package services contains the server-side business logic. This file
// implements AuthService, which verifies credentials, issues and checks
// access/refresh tokens, and registers users while enforcing email
// uniqueness.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dkuznecov/authgate/internal/common"
	"github.com/dkuznecov/authgate/internal/logging"
	"github.com/dkuznecov/authgate/internal/server/auth"
	"github.com/dkuznecov/authgate/internal/server/config"
	"github.com/dkuznecov/authgate/internal/server/models"
	"github.com/dkuznecov/authgate/internal/server/notifications"
	"github.com/dkuznecov/authgate/internal/server/repositories/repomanager"
)

// TopicUserCreated is the event topic emitted after a successful
// registration.
const TopicUserCreated = "user-created"

// UserCreatedEvent is the fire-and-forget payload published to the
// notification sink on registration.
type UserCreatedEvent struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenPair bundles a short-lived access token and a refresh token signed
// with a distinct secret.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// PasswordHasher is the hashing contract consumed by AuthService.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// dummyPasswordDigest is verified against when the email is unknown, so a
// login probe costs a bcrypt compare whether or not the account exists. The
// result is discarded; it is not a credential.
const dummyPasswordDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService provides the authentication operations:
//   - Login: verify credentials and mint a token pair
//   - Register: create a user, notify downstream, mint a token pair
//   - RefreshToken: rotate a refresh token into a fresh pair
//   - VerifyToken: check an access token, sentinel-style
//   - GetUserByID: plain directory lookup, password hash stripped
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       PasswordHasher
	sink                         notifications.Sink
	logger                       logging.Logger
	accessSecret                 []byte
	refreshSecret                []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService from repositories, collaborators,
// and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	sink notifications.Sink, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       hasher,
		sink:                         sink,
		logger:                       logger.With("module", "auth_service"),
		accessSecret:                 []byte(cfg.SecretKey),
		refreshSecret:                []byte(cfg.RefreshSecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Login verifies the email/password pair and returns a new token pair. An
// unknown email and a wrong password both yield common.ErrorUnauthorized;
// the caller cannot tell which factor failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a compare anyway so response time does not reveal
			// whether the account exists.
			s.hasher.Verify(password, dummyPasswordDigest)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "login lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(user.ID, user.Email)
}

// Register creates a user with the given email, name, and password. Email
// uniqueness is enforced by the directory's atomic insert; the pre-check
// lookup only short-circuits the common case. On success a user-created
// event is dispatched best-effort and the returned user carries no password
// hash.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, common.ErrorConflict
	} else if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "register lookup failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hash failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{Email: email, Name: username, PasswordHash: digest})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			// Lost a concurrent registration race; the constraint is the
			// sole arbiter.
			return nil, nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "user insert failed", "error", err.Error())
		return nil, nil, common.ErrorInternal
	}

	// Fire-and-forget; a broken sink must not fail registration.
	_ = s.sink.Publish(ctx, TopicUserCreated, UserCreatedEvent{ID: user.ID, Name: user.Name})

	pair, err := s.generateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user.Sanitized(), pair, nil
}

// RefreshToken verifies the refresh token and re-mints both tokens from the
// recovered claims. Any verification failure (bad signature, expiry,
// malformed input) ends the session with common.ErrorUnauthorized.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := auth.ParseToken(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(claims.UserID, claims.Email)
}

// VerifyToken checks an access token and returns its claims, or nil when the
// token is invalid. Verification runs on untrusted input routinely, so this
// path never returns an error.
func (s *AuthService) VerifyToken(token string) *auth.Claims {
	claims, err := auth.ParseToken(token, s.accessSecret)
	if err != nil {
		return nil
	}
	return claims
}

// GetUserByID looks up a user by id. The returned record never carries the
// password hash; an absent id yields common.ErrorNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	return user.Sanitized(), nil
}

func (s *AuthService) generateTokenPair(userID, email string) (*TokenPair, error) {
	access, err := auth.GenerateToken(userID, email, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := auth.GenerateToken(userID, email, s.refreshSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
