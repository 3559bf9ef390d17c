package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/repository"
)

// NewRepositories creates the database-backed repositories. The search state
// store lives in redis or memory and is set by the caller.
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		CommitRecord: NewCommitRecordRepository(db, logger),
	}
}
