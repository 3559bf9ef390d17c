package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jafarshop/productconsole/internal/domain"
)

// CommitRecordRepository defines commit journal data access methods
type CommitRecordRepository interface {
	Create(ctx context.Context, record *domain.CommitRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CommitRecord, error)
	List(ctx context.Context, filter domain.CommitRecordFilter) ([]*domain.CommitRecord, int, error)
}

// SearchStateStore persists the last product search of a console client.
// Load returns (nil, nil) when nothing was saved for key.
type SearchStateStore interface {
	Load(ctx context.Context, key string) (*domain.SearchState, error)
	Save(ctx context.Context, key string, state *domain.SearchState) error
}

// Repositories aggregates all repositories
type Repositories struct {
	CommitRecord CommitRecordRepository
	SearchState  SearchStateStore
}
