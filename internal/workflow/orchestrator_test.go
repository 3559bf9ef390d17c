package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/pkg/errors"
)

type fakeCatalog struct {
	mu sync.Mutex

	accounts    []domain.Account
	accountsErr error

	records  map[string]domain.RawProductRecord
	fetchErr error
	fetches  int

	validation  domain.ValidationResult
	validateErr error
	validated   []map[string]interface{}

	commitErr error
	commits   []domain.CommitPayload

	// when set, ValidateProduct/FetchProduct block until released
	gate    chan struct{}
	entered chan struct{}
}

func (f *fakeCatalog) wait() {
	if f.gate != nil {
		f.entered <- struct{}{}
		<-f.gate
	}
}

func (f *fakeCatalog) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeCatalog) FetchProduct(ctx context.Context, accountID int64, productID string) (domain.RawProductRecord, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	f.wait()
	if f.fetchErr != nil {
		return domain.RawProductRecord{}, f.fetchErr
	}
	return f.records[productID], nil
}

func (f *fakeCatalog) ValidateProduct(ctx context.Context, productData map[string]interface{}) (domain.ValidationResult, error) {
	f.mu.Lock()
	f.validated = append(f.validated, productData)
	f.mu.Unlock()
	f.wait()
	return f.validation, f.validateErr
}

func (f *fakeCatalog) CommitProduct(ctx context.Context, accountID int64, productID string, payload domain.CommitPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits = append(f.commits, payload)
	return f.commitErr
}

type memJournal struct {
	mu      sync.Mutex
	records []*domain.CommitRecord
}

func (j *memJournal) Create(ctx context.Context, r *domain.CommitRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, r)
	return nil
}

func (j *memJournal) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommitRecord, error) {
	return nil, &errors.ErrNotFound{Resource: "commit record", ID: id.String()}
}

func (j *memJournal) List(ctx context.Context, filter domain.CommitRecordFilter) ([]*domain.CommitRecord, int, error) {
	return j.records, len(j.records), nil
}

func product(id, title string) domain.RawProductRecord {
	return domain.RawProductRecord{
		Summary: &domain.RawSummary{ID: "gid://shopify/Product/" + id, Title: title, Tags: []string{"red"}},
		Metafields: []domain.RawMetafield{
			{Namespace: "custom", Key: "isbn", Type: "single_line_text_field", Value: "978"},
		},
	}
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		accounts: []domain.Account{{ID: 1}, {ID: 2, IsDefault: true}},
		records: map[string]domain.RawProductRecord{
			"100": product("100", "First"),
			"200": product("200", "Second"),
		},
	}
}

func TestDefaultAccount(t *testing.T) {
	id, err := DefaultAccount([]domain.Account{{ID: 1}, {ID: 2, IsDefault: true}, {ID: 3, IsDefault: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	id, err = DefaultAccount([]domain.Account{{ID: 5}, {ID: 6}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)

	_, err = DefaultAccount(nil)
	var pErr *errors.ErrPrecondition
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, errors.ReasonNoAccount, pErr.Reason)
}

func TestStart(t *testing.T) {
	t.Run("resolves account and fetches", func(t *testing.T) {
		cat := newCatalog()
		o := New(Options{Catalog: cat})

		require.NoError(t, o.Start(context.Background(), StartOptions{ProductID: "gid://shopify/Product/100"}))

		assert.Equal(t, domain.WorkflowStateReady, o.State())
		assert.Equal(t, int64(2), o.AccountID())
		assert.Equal(t, "100", o.ProductID())
		assert.Equal(t, 1, cat.fetches)

		v := o.Snapshot()
		require.True(t, v.Loaded)
		assert.Equal(t, "First", v.Summary.Title)
		assert.Equal(t, "Product fetched", v.Notifications[len(v.Notifications)-1].Message)
	})

	t.Run("never fetches a supplied record", func(t *testing.T) {
		cat := newCatalog()
		o := New(Options{Catalog: cat})
		rec := product("300", "Carried")

		require.NoError(t, o.Start(context.Background(), StartOptions{AccountID: 9, ProductID: "300", Record: &rec}))

		assert.Equal(t, 0, cat.fetches)
		assert.Equal(t, int64(9), o.AccountID())
		assert.Equal(t, "Carried", o.Snapshot().Summary.Title)
	})

	t.Run("account failure leaves ready without account", func(t *testing.T) {
		cat := newCatalog()
		cat.accounts = nil
		o := New(Options{Catalog: cat})

		err := o.Start(context.Background(), StartOptions{ProductID: "100"})
		require.Error(t, err)

		assert.Equal(t, domain.WorkflowStateReady, o.State())
		assert.Equal(t, int64(0), o.AccountID())
		assert.Equal(t, 0, cat.fetches)

		// fetch works once an account is available
		o.SetAccount(1)
		require.NoError(t, o.Load(context.Background(), "100"))
		assert.True(t, o.Snapshot().Loaded)
	})

	t.Run("fetch transport failure is reported", func(t *testing.T) {
		cat := newCatalog()
		cat.fetchErr = &errors.ErrTransport{Op: "fetch product", Message: "Product not found"}
		o := New(Options{Catalog: cat})

		err := o.Start(context.Background(), StartOptions{ProductID: "100"})
		var tErr *errors.ErrTransport
		require.ErrorAs(t, err, &tErr)

		v := o.Snapshot()
		assert.False(t, v.Loaded)
		assert.Equal(t, domain.WorkflowStateReady, v.State)
		last := v.Notifications[len(v.Notifications)-1]
		assert.Equal(t, NotificationError, last.Level)
		assert.Equal(t, "Product not found", last.Message)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		o := New(Options{Catalog: newCatalog()})
		require.NoError(t, o.Start(context.Background(), StartOptions{AccountID: 1}))
		var sErr *errors.ErrInvalidStateTransition
		assert.ErrorAs(t, o.Start(context.Background(), StartOptions{AccountID: 1}), &sErr)
	})
}

func startedWith(t *testing.T, cat *fakeCatalog, opts Options) *Orchestrator {
	t.Helper()
	opts.Catalog = cat
	o := New(opts)
	require.NoError(t, o.Start(context.Background(), StartOptions{AccountID: 7, ProductID: "100"}))
	return o
}

func TestEdits(t *testing.T) {
	o := New(Options{Catalog: newCatalog()})
	var pErr *errors.ErrPrecondition
	assert.ErrorAs(t, o.SetSummaryField(edit.FieldTitle, "x"), &pErr)

	o = startedWith(t, newCatalog(), Options{KnownTagOptions: []string{"blue"}})
	require.NoError(t, o.SetSummaryField(edit.FieldTitle, "Edited"))
	require.NoError(t, o.SetMetafieldValue(0, "979"))
	assert.Error(t, o.SetMetafieldValue(5, "x"))

	v := o.Snapshot()
	assert.Equal(t, "Edited", v.Summary.Title)
	assert.Equal(t, []string{"title", "metafields.0.value"}, v.Dirty)
	assert.Equal(t, []string{"blue", "red"}, v.TagOptions)

	require.NoError(t, o.ResetEdits())
	assert.Empty(t, o.Snapshot().Dirty)
}

func TestValidate(t *testing.T) {
	t.Run("applies issues", func(t *testing.T) {
		cat := newCatalog()
		cat.validation = domain.ValidationResult{
			Pass:   false,
			Failed: 1,
			Issues: []domain.ValidationIssue{{FieldPath: "metafields[0].value", Message: "too long", Level: "ERROR"}},
		}
		o := startedWith(t, cat, Options{})

		out, err := o.Validate(context.Background())
		require.NoError(t, err)
		assert.False(t, out.Pass)

		v := o.Snapshot()
		require.NotNil(t, v.Metafields[0].Error)
		assert.Equal(t, "too long", v.Metafields[0].Error.Message)
		assert.Equal(t, domain.SeverityBlocking, v.Metafields[0].Severity)
		assert.Equal(t, "Validation has issues", v.Notifications[len(v.Notifications)-1].Message)

		require.Len(t, cat.validated, 1)
		assert.Equal(t, int64(7), cat.validated[0]["accountId"])
		assert.Equal(t, "100", cat.validated[0]["productId"])
	})

	t.Run("transport failure keeps previous feedback", func(t *testing.T) {
		cat := newCatalog()
		cat.validation = domain.ValidationResult{Issues: []domain.ValidationIssue{{FieldPath: "title", Message: "A", Level: "ERROR"}}}
		o := startedWith(t, cat, Options{})
		_, err := o.Validate(context.Background())
		require.NoError(t, err)

		cat.validateErr = &errors.ErrTransport{Op: "validate"}
		_, err = o.Validate(context.Background())
		require.Error(t, err)

		v := o.Snapshot()
		assert.Equal(t, "A", v.FieldErrors["title"].Message)
		assert.Equal(t, "Validate failed", v.Notifications[len(v.Notifications)-1].Message)
		assert.Equal(t, domain.WorkflowStateReady, v.State)
	})

	t.Run("without a record", func(t *testing.T) {
		o := New(Options{Catalog: newCatalog()})
		require.NoError(t, o.Start(context.Background(), StartOptions{AccountID: 1}))
		_, err := o.Validate(context.Background())
		var pErr *errors.ErrPrecondition
		require.ErrorAs(t, err, &pErr)
		assert.Equal(t, errors.ReasonNoRecord, pErr.Reason)
	})
}

func TestOperationsDoNotOverlap(t *testing.T) {
	cat := newCatalog()
	o := startedWith(t, cat, Options{})
	cat.gate = make(chan struct{})
	cat.entered = make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := o.Validate(context.Background())
		done <- err
	}()
	<-cat.entered

	assert.Equal(t, domain.WorkflowStateValidating, o.State())

	var pErr *errors.ErrPrecondition
	_, err := o.Validate(context.Background())
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, errors.ReasonOperationInFlight, pErr.Reason)
	require.ErrorAs(t, o.Commit(context.Background()), &pErr)
	assert.Empty(t, cat.commits)

	// edits are allowed while validating
	require.NoError(t, o.SetSummaryField(edit.FieldTitle, "during"))

	close(cat.gate)
	require.NoError(t, <-done)
	assert.Equal(t, domain.WorkflowStateReady, o.State())
	assert.Equal(t, "during", o.Snapshot().Summary.Title)
}

func TestStaleValidationIsDropped(t *testing.T) {
	cat := newCatalog()
	cat.validation = domain.ValidationResult{Issues: []domain.ValidationIssue{{FieldPath: "title", Message: "stale", Level: "ERROR"}}}
	o := startedWith(t, cat, Options{})
	cat.gate = make(chan struct{})
	cat.entered = make(chan struct{})

	done := make(chan error)
	go func() {
		_, err := o.Validate(context.Background())
		done <- err
	}()
	<-cat.entered

	o.Replace(product("200", "Second"))
	close(cat.gate)

	var cErr *errors.ErrConflict
	require.ErrorAs(t, <-done, &cErr)

	v := o.Snapshot()
	assert.Equal(t, "200", v.ProductID)
	assert.Empty(t, v.FieldErrors)
	assert.Nil(t, v.LastValidation)
}

func TestCommit(t *testing.T) {
	t.Run("commits current edits and journals", func(t *testing.T) {
		cat := newCatalog()
		journal := &memJournal{}
		o := startedWith(t, cat, Options{Journal: journal})
		require.NoError(t, o.SetMetafieldValue(0, "979"))

		require.NoError(t, o.Commit(context.Background()))

		require.Len(t, cat.commits, 1)
		p := cat.commits[0]
		assert.Equal(t, "100", p.ProductID)
		assert.Equal(t, "isbn", p.Metafields[0].Key)
		assert.Equal(t, "979", p.Metafields[0].Value)

		require.Len(t, journal.records, 1)
		assert.Equal(t, domain.CommitStatusSuccess, journal.records[0].Status)
		assert.Equal(t, int64(7), journal.records[0].AccountID)
		assert.Equal(t, "First", journal.records[0].Title)
	})

	t.Run("requires an account before any call", func(t *testing.T) {
		cat := newCatalog()
		o := New(Options{Catalog: cat})
		rec := product("100", "x")
		o.Replace(rec)

		var pErr *errors.ErrPrecondition
		require.ErrorAs(t, o.Commit(context.Background()), &pErr)
		assert.Equal(t, errors.ReasonNoAccount, pErr.Reason)
		assert.Empty(t, cat.commits)
	})

	t.Run("requires a product id", func(t *testing.T) {
		cat := newCatalog()
		o := New(Options{Catalog: cat})
		o.SetAccount(1)
		o.Replace(domain.RawProductRecord{})

		var pErr *errors.ErrPrecondition
		require.ErrorAs(t, o.Commit(context.Background()), &pErr)
		assert.Equal(t, errors.ReasonMissingProductID, pErr.Reason)
		assert.Empty(t, cat.commits)
	})

	t.Run("failure is journaled and reported", func(t *testing.T) {
		cat := newCatalog()
		cat.commitErr = &errors.ErrTransport{Op: "commit", Message: "Shopify rejected"}
		journal := &memJournal{}
		o := startedWith(t, cat, Options{Journal: journal})

		require.Error(t, o.Commit(context.Background()))

		require.Len(t, journal.records, 1)
		assert.Equal(t, domain.CommitStatusFailed, journal.records[0].Status)
		v := o.Snapshot()
		assert.Equal(t, "Shopify rejected", v.Notifications[len(v.Notifications)-1].Message)
		assert.Equal(t, domain.WorkflowStateReady, v.State)
	})
}

func TestLoadReplacesSession(t *testing.T) {
	o := startedWith(t, newCatalog(), Options{})
	require.NoError(t, o.SetSummaryField(edit.FieldTitle, "edited"))

	require.NoError(t, o.Load(context.Background(), "200"))

	v := o.Snapshot()
	assert.Equal(t, "Second", v.Summary.Title)
	assert.Empty(t, v.Dirty)

	o.Clear()
	assert.False(t, o.Snapshot().Loaded)
	assert.Equal(t, "", o.ProductID())
}

func TestNotificationsAreBounded(t *testing.T) {
	o := New(Options{Catalog: newCatalog(), MaxNotifications: 3})
	require.NoError(t, o.Start(context.Background(), StartOptions{AccountID: 1}))
	for i := 0; i < 5; i++ {
		_ = o.Load(context.Background(), "")
	}
	assert.Len(t, o.Notifications(), 3)
}
