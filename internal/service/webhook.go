package service

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/repository"
)

const webhookTimeout = 10 * time.Second

// NotifyingJournal records commits in the wrapped repository and then posts
// each record to a webhook URL. Delivery runs in its own goroutine so the
// commit response is not blocked; failures are only logged.
type NotifyingJournal struct {
	repository.CommitRecordRepository
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewNotifyingJournal wraps repo. An empty url returns repo unchanged.
func NewNotifyingJournal(repo repository.CommitRecordRepository, url string, logger *zap.Logger) repository.CommitRecordRepository {
	if url == "" {
		return repo
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyingJournal{
		CommitRecordRepository: repo,
		url:                    url,
		client:                 &http.Client{Timeout: webhookTimeout},
		logger:                 logger,
	}
}

// Create stores the record and schedules the notification
func (j *NotifyingJournal) Create(ctx context.Context, record *domain.CommitRecord) error {
	if err := j.CommitRecordRepository.Create(ctx, record); err != nil {
		return err
	}
	payload := *record
	go j.notify(payload)
	return nil
}

func (j *NotifyingJournal) notify(record domain.CommitRecord) {
	body, err := json.Marshal(map[string]interface{}{
		"event":  "product_commit",
		"record": record,
	})
	if err != nil {
		j.logger.Warn("Webhook: failed to marshal commit record", zap.Error(err))
		return
	}
	req, err := http.NewRequest(http.MethodPost, j.url, bytes.NewReader(body))
	if err != nil {
		j.logger.Warn("Webhook: failed to create request", zap.String("url", j.url), zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", record.ID.String())

	resp, err := j.client.Do(req)
	if err != nil {
		j.logger.Warn("Webhook: commit notification request failed", zap.String("url", j.url), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		j.logger.Warn("Webhook: commit notification returned non-2xx",
			zap.String("url", j.url), zap.Int("status", resp.StatusCode))
		return
	}
	j.logger.Info("Webhook: commit notification sent",
		zap.String("url", j.url),
		zap.String("record_id", record.ID.String()),
		zap.Int("status", resp.StatusCode))
}

var _ repository.CommitRecordRepository = (*NotifyingJournal)(nil)
