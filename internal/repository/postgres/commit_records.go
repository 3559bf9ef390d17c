package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 200
)

type commitRecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommitRecordRepository creates a new commit journal repository
func NewCommitRecordRepository(db *sql.DB, logger *zap.Logger) *commitRecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &commitRecordRepository{
		db:     db,
		logger: logger,
	}
}

func (r *commitRecordRepository) Create(ctx context.Context, record *domain.CommitRecord) error {
	query := `
		INSERT INTO commit_records (id, account_id, product_id, title, payload_json, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.AccountID,
		record.ProductID,
		record.Title,
		record.PayloadJSON,
		record.Status,
		record.Message,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create commit record", zap.Error(err), zap.String("product_id", record.ProductID))
		return err
	}

	return nil
}

func (r *commitRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommitRecord, error) {
	query := `
		SELECT id, account_id, product_id, title, payload_json, status, message, created_at
		FROM commit_records
		WHERE id = $1
	`

	var record domain.CommitRecord
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.AccountID,
		&record.ProductID,
		&record.Title,
		&record.PayloadJSON,
		&record.Status,
		&record.Message,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get commit record by ID", zap.Error(err))
		return nil, err
	}

	return &record, nil
}

// List returns one page of records, newest first, and the total match count.
// Page is 1-based; Size defaults to 20 and is capped at 200.
func (r *commitRecordRepository) List(ctx context.Context, filter domain.CommitRecordFilter) ([]*domain.CommitRecord, int, error) {
	where, args := buildCommitRecordWhere(filter)

	countQuery := "SELECT COUNT(*) FROM commit_records" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count commit records", zap.Error(err))
		return nil, 0, err
	}

	page, size := pageBounds(filter.Page, filter.Size)
	query := fmt.Sprintf(`
		SELECT id, account_id, product_id, title, payload_json, status, message, created_at
		FROM commit_records%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list commit records", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	records := []*domain.CommitRecord{}
	for rows.Next() {
		var record domain.CommitRecord
		if err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.ProductID,
			&record.Title,
			&record.PayloadJSON,
			&record.Status,
			&record.Message,
			&record.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, &record)
	}

	return records, total, rows.Err()
}

// likeEscaper makes user input match literally inside an ILIKE pattern
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildCommitRecordWhere(filter domain.CommitRecordFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	if filter.AccountID != 0 {
		args = append(args, filter.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.ID != nil {
		args = append(args, *filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
	}
	if title := strings.TrimSpace(filter.Title); title != "" {
		args = append(args, "%"+likeEscaper.Replace(title)+"%")
		conds = append(conds, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func pageBounds(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
