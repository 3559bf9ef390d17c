package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jafarshop/productconsole/internal/domain"
)

// CommitRecordRepository is a process-local commit journal used when no
// database is configured. Records are lost on restart.
type CommitRecordRepository struct {
	mu      sync.RWMutex
	records []domain.CommitRecord
}

func NewCommitRecordRepository() *CommitRecordRepository {
	return &CommitRecordRepository{}
}

func (r *CommitRecordRepository) Create(ctx context.Context, record *domain.CommitRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *CommitRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommitRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, nil
}

func (r *CommitRecordRepository) List(ctx context.Context, filter domain.CommitRecordFilter) ([]*domain.CommitRecord, int, error) {
	title := strings.ToLower(strings.TrimSpace(filter.Title))

	r.mu.RLock()
	matched := make([]*domain.CommitRecord, 0, len(r.records))
	for i := range r.records {
		rec := r.records[i]
		if filter.AccountID != 0 && rec.AccountID != filter.AccountID {
			continue
		}
		if filter.ID != nil && rec.ID != *filter.ID {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(rec.Title), title) {
			continue
		}
		matched = append(matched, &rec)
	}
	r.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page, size := filter.Page, filter.Size
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	total := len(matched)
	start := (page - 1) * size
	if start >= total {
		return []*domain.CommitRecord{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}
