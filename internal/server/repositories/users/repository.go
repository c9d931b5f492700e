// Package users defines the user directory contract and its Postgres
// implementation. The directory is the only holder of password hashes and
// the only enforcer of email uniqueness.
package users

import (
	"context"

	"github.com/dkuznecov/authgate/internal/server/models"
)

// Repository is the narrow directory contract consumed by the auth service.
//
// Create has insert-if-absent semantics: when the email is already taken the
// storage layer fails the insert atomically and the call returns
// common.ErrorConflict. Lookups return common.ErrorNotFound for absent rows.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
