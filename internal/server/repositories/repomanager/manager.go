// Package repomanager vends repository implementations bound to a DBTX, so
// a service can run several repositories inside one transaction by binding
// them all to the same *sql.Tx.
package repomanager

import (
	"context"
	"database/sql"

	"noticeboard/internal/dbx"
	"noticeboard/internal/server/repositories/attachments"
	"noticeboard/internal/server/repositories/notices"
	"noticeboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	Notices(db dbx.DBTX) notices.Repository
	Attachments(db dbx.DBTX) attachments.Repository
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
