package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/workflow"
	"github.com/jafarshop/productconsole/pkg/errors"
)

type stubCatalog struct {
	accounts []domain.Account
}

func (s *stubCatalog) FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error) {
	return domain.RawProductRecord{Summary: &domain.RawSummary{ID: productID, Title: "Dune"}}, nil
}

func (s *stubCatalog) ValidateProduct(ctx context.Context, productData map[string]interface{}) (domain.ValidationResult, error) {
	return domain.ValidationResult{Pass: true}, nil
}

func (s *stubCatalog) CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error {
	return nil
}

func (s *stubCatalog) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts, nil
}

func newRegistry(accounts []domain.Account) (*Registry, *time.Time) {
	clock := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(workflow.Options{Catalog: &stubCatalog{accounts: accounts}}, 10*time.Minute, nil)
	r.now = func() time.Time { return clock }
	return r, &clock
}

func TestCreateAndGet(t *testing.T) {
	r, _ := newRegistry([]domain.Account{{ID: 4, IsDefault: true}})

	id, orch, err := r.Create(context.Background(), workflow.StartOptions{ProductID: "42"})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowStateReady, orch.State())
	assert.Equal(t, int64(4), orch.AccountID())

	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Same(t, orch, got)
	assert.Equal(t, 1, r.Len())

	r.Delete(id)
	_, err = r.Get(id)
	var nf *errors.ErrNotFound
	assert.True(t, stderrors.As(err, &nf))
}

func TestCreateKeepsFailedSession(t *testing.T) {
	r, _ := newRegistry(nil)

	id, orch, err := r.Create(context.Background(), workflow.StartOptions{ProductID: "42"})
	require.Error(t, err)

	got, getErr := r.Get(id)
	require.NoError(t, getErr)
	assert.Same(t, orch, got)
	require.NotEmpty(t, got.Notifications())
}

func TestSweep(t *testing.T) {
	r, clock := newRegistry([]domain.Account{{ID: 1}})

	stale, _, err := r.Create(context.Background(), workflow.StartOptions{})
	require.NoError(t, err)
	*clock = clock.Add(8 * time.Minute)
	fresh, _, err := r.Create(context.Background(), workflow.StartOptions{})
	require.NoError(t, err)

	*clock = clock.Add(4 * time.Minute)
	assert.Equal(t, 1, r.Sweep())

	_, err = r.Get(stale)
	assert.Error(t, err)
	_, err = r.Get(fresh)
	assert.NoError(t, err)

	// Get refreshes the idle timer
	*clock = clock.Add(9 * time.Minute)
	assert.Zero(t, r.Sweep())
}

func TestRunStopsOnCancel(t *testing.T) {
	r, _ := newRegistry(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	r.Delete(uuid.New())
}
