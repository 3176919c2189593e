// Package repomanager vends repository implementations bound to a concrete
// database handle, letting services run the same repositories inside or
// outside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mzakharov/chirpbook/internal/dbx"
	"github.com/mzakharov/chirpbook/internal/server/repositories/posts"
	"github.com/mzakharov/chirpbook/internal/server/repositories/refreshtokens"
	"github.com/mzakharov/chirpbook/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Posts(db dbx.DBTX) posts.Repository
}
