// Package db wires repositories to their backing store and owns schema
// migrations.
package db

import (
	"context"
	"database/sql"

	"github.com/datalyst-app/authd/internal/server/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
}
