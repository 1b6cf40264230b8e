// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"taskdesk/internal/dbx"
	"taskdesk/internal/server/repositories/otps"
	"taskdesk/internal/server/repositories/tasks"
	"taskdesk/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to either the root *sql.DB
// or a transaction, letting services compose multi-statement flows.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Otps(db dbx.DBTX) otps.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
