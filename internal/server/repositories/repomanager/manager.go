// Package repomanager owns the database handle and hands out repositories
// bound to it (or to a transaction).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkuznecov/authgate/internal/dbx"
	"github.com/dkuznecov/authgate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
