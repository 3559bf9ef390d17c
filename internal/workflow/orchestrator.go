package workflow

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/domain"
	"github.com/jafarshop/productconsole/internal/edit"
	"github.com/jafarshop/productconsole/internal/repository"
	"github.com/jafarshop/productconsole/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultMaxNotifications = 50

// Options configures an Orchestrator
type Options struct {
	Catalog          Catalog
	Journal          repository.CommitRecordRepository // optional
	KnownTagOptions  []string
	Logger           *zap.Logger
	MaxNotifications int
}

// StartOptions is what the caller already knows when a session opens
type StartOptions struct {
	AccountID int64
	ProductID string
	Record    *domain.RawProductRecord // carried over from a previous screen; never re-fetched
}

// Orchestrator sequences account resolution, record loading, editing,
// validation and commit for one edit view. Locks are never held across calls
// to the catalog; edits stay possible while a validation is in flight.
type Orchestrator struct {
	catalog  Catalog
	journal  repository.CommitRecordRepository
	options  []string
	logger   *zap.Logger
	maxNotes int

	mu            sync.Mutex
	state         domain.WorkflowState
	accountID     int64
	productID     string
	session       *edit.EditSession
	token         uint64 // bumped whenever the session is replaced or cleared
	validating    bool
	committing    bool
	notifications []Notification
}

// New creates an orchestrator in the Idle state
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxNotes := opts.MaxNotifications
	if maxNotes <= 0 {
		maxNotes = defaultMaxNotifications
	}
	return &Orchestrator{
		catalog:  opts.Catalog,
		journal:  opts.Journal,
		options:  append([]string{}, opts.KnownTagOptions...),
		logger:   logger,
		maxNotes: maxNotes,
		state:    domain.WorkflowStateIdle,
	}
}

// Start resolves the account (unless given) and loads the record (unless
// supplied). Failures are recorded as notifications and returned; the
// orchestrator stays usable in the Ready state.
func (o *Orchestrator) Start(ctx context.Context, opts StartOptions) error {
	o.mu.Lock()
	if o.state != domain.WorkflowStateIdle {
		from := o.state
		o.mu.Unlock()
		return &errors.ErrInvalidStateTransition{From: from, To: domain.WorkflowStateResolvingAccount}
	}
	o.productID = edit.Canonicalize(opts.ProductID)
	o.mu.Unlock()

	var firstErr error
	if opts.AccountID != 0 {
		o.SetAccount(opts.AccountID)
	} else if err := o.resolveAccount(ctx); err != nil {
		firstErr = err
	}

	switch {
	case opts.Record != nil:
		o.Replace(*opts.Record)
	case o.ProductID() != "":
		if err := o.Load(ctx, o.ProductID()); err != nil && firstErr == nil {
			firstErr = err
		}
	default:
		o.mu.Lock()
		o.setState(domain.WorkflowStateReady)
		o.mu.Unlock()
	}
	return firstErr
}

func (o *Orchestrator) resolveAccount(ctx context.Context) error {
	o.mu.Lock()
	o.setState(domain.WorkflowStateResolvingAccount)
	o.mu.Unlock()

	accounts, err := o.catalog.ListAccounts(ctx)
	if err == nil {
		var id int64
		id, err = DefaultAccount(accounts)
		if err == nil {
			o.mu.Lock()
			o.accountID = id
			o.mu.Unlock()
			o.logger.Debug("Resolved default account", zap.Int64("account_id", id))
			return nil
		}
	}

	o.logger.Warn("Failed to resolve default account", zap.Error(err))
	o.mu.Lock()
	o.setState(domain.WorkflowStateReady)
	o.notifyLocked(NotificationError, userMessage(err, "Failed to load default account"))
	o.mu.Unlock()
	return err
}

// DefaultAccount picks the first default account, else the first account.
func DefaultAccount(accounts []domain.Account) (int64, error) {
	if len(accounts) == 0 {
		return 0, &errors.ErrPrecondition{Reason: errors.ReasonNoAccount}
	}
	for _, a := range accounts {
		if a.IsDefault {
			return a.ID, nil
		}
	}
	return accounts[0].ID, nil
}

// SetAccount sets the account used for fetch and commit
func (o *Orchestrator) SetAccount(accountID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.accountID = accountID
}

// Load fetches productID and replaces the current session with it. A newer
// Load or Replace supersedes this one; its result is then dropped.
func (o *Orchestrator) Load(ctx context.Context, productID string) error {
	pid := edit.Canonicalize(productID)

	o.mu.Lock()
	if pid == "" {
		o.notifyLocked(NotificationError, "Please input product ID")
		o.settleLocked()
		o.mu.Unlock()
		return &errors.ErrPrecondition{Reason: errors.ReasonMissingProductID}
	}
	if o.accountID == 0 {
		o.notifyLocked(NotificationError, "Default account is not available. Please configure Settings.")
		o.settleLocked()
		o.mu.Unlock()
		return &errors.ErrPrecondition{Reason: errors.ReasonNoAccount}
	}
	o.token++
	token := o.token
	accountID := o.accountID
	o.session = nil
	o.productID = pid
	o.setState(domain.WorkflowStateLoadingRecord)
	o.mu.Unlock()

	rec, err := o.catalog.FetchProduct(ctx, accountID, pid)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.token != token {
		o.logger.Debug("Dropping superseded fetch result", zap.String("product_id", pid))
		return &errors.ErrConflict{Message: "product load superseded"}
	}
	o.setState(domain.WorkflowStateReady)
	if err != nil {
		o.logger.Warn("Failed to fetch product", zap.Error(err), zap.String("product_id", pid), zap.Int64("account_id", accountID))
		o.notifyLocked(NotificationError, userMessage(err, "Fetch failed"))
		return err
	}
	o.installLocked(rec)
	o.notifyLocked(NotificationSuccess, "Product fetched")
	return nil
}

// Replace installs a record supplied by the caller without fetching
func (o *Orchestrator) Replace(rec domain.RawProductRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.token++
	o.installLocked(rec)
	o.setState(domain.WorkflowStateReady)
}

// Clear discards the current session
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.token++
	o.session = nil
	o.productID = ""
	o.settleLocked()
}

func (o *Orchestrator) installLocked(rec domain.RawProductRecord) {
	if len(o.options) > 0 {
		rec.TagOptions = append(append([]string{}, rec.TagOptions...), o.options...)
	}
	o.session = edit.Build(rec)
	if id := o.session.ProductID(); id != "" {
		o.productID = id
	}
}

// SetSummaryField edits one summary field of the current session
func (o *Orchestrator) SetSummaryField(field string, value interface{}) error {
	return o.withSession(func(s *edit.EditSession) error {
		return s.SetSummaryField(field, value)
	})
}

// SetTags replaces the assigned tags of the current session
func (o *Orchestrator) SetTags(tags []string) error {
	return o.withSession(func(s *edit.EditSession) error {
		s.SetTags(tags)
		return nil
	})
}

// SetMetafieldValue edits the value of the metafield row at index
func (o *Orchestrator) SetMetafieldValue(index int, value interface{}) error {
	return o.withSession(func(s *edit.EditSession) error {
		return s.SetMetafieldValue(index, value)
	})
}

// ResetEdits restores the loaded values
func (o *Orchestrator) ResetEdits() error {
	return o.withSession(func(s *edit.EditSession) error {
		s.Reset()
		return nil
	})
}

func (o *Orchestrator) withSession(fn func(s *edit.EditSession) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return &errors.ErrPrecondition{Reason: errors.ReasonNoRecord}
	}
	return fn(o.session)
}

// Payload assembles the commit payload from the current edit state
func (o *Orchestrator) Payload() (domain.CommitPayload, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.session == nil {
		return domain.CommitPayload{}, &errors.ErrPrecondition{Reason: errors.ReasonNoRecord}
	}
	return edit.Assemble(o.session, o.productID), nil
}

// Validate sends the current payload to the validator and applies the issues.
// A transport failure leaves the previous feedback untouched. A result with
// pass=false is not an error.
func (o *Orchestrator) Validate(ctx context.Context) (*edit.ValidationOutcome, error) {
	o.mu.Lock()
	if err := o.beginLocked(); err != nil {
		o.mu.Unlock()
		return nil, err
	}
	o.validating = true
	token := o.token
	productData := edit.Assemble(o.session, o.productID).AsProductData(o.accountID)
	o.mu.Unlock()

	result, err := o.catalog.ValidateProduct(ctx, productData)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.validating = false
	if o.token != token {
		o.logger.Debug("Dropping validation result for a replaced session")
		return nil, &errors.ErrConflict{Message: "product changed while validating"}
	}
	if err != nil {
		o.logger.Warn("Validation call failed", zap.Error(err), zap.String("product_id", o.productID))
		o.notifyLocked(NotificationError, userMessage(err, "Validate failed"))
		return nil, err
	}

	o.session.ApplyValidation(result)
	if result.Pass {
		o.notifyLocked(NotificationSuccess, "Validation passed")
	} else {
		o.notifyLocked(NotificationWarning, "Validation has issues")
	}
	return o.session.LastValidation(), nil
}

// Commit writes the current payload back to the catalog. It requires a
// resolved account and a known product id; both are checked before any call.
func (o *Orchestrator) Commit(ctx context.Context) error {
	o.mu.Lock()
	if err := o.beginLocked(); err != nil {
		o.mu.Unlock()
		return err
	}
	if o.accountID == 0 {
		o.notifyLocked(NotificationError, "Default account is not available. Please configure Settings.")
		o.mu.Unlock()
		return &errors.ErrPrecondition{Reason: errors.ReasonNoAccount}
	}
	payload := edit.Assemble(o.session, o.productID)
	if payload.ProductID == "" {
		o.notifyLocked(NotificationError, "Product ID is unknown")
		o.mu.Unlock()
		return &errors.ErrPrecondition{Reason: errors.ReasonMissingProductID}
	}
	o.committing = true
	token := o.token
	accountID := o.accountID
	o.mu.Unlock()

	err := o.catalog.CommitProduct(ctx, accountID, payload.ProductID, payload)
	o.recordCommit(ctx, accountID, payload, err)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.committing = false
	if o.token != token {
		o.logger.Info("Commit finished for a replaced session", zap.String("product_id", payload.ProductID), zap.Error(err))
		return &errors.ErrConflict{Message: "product changed while committing"}
	}
	if err != nil {
		o.logger.Warn("Commit failed", zap.Error(err), zap.String("product_id", payload.ProductID), zap.Int64("account_id", accountID))
		o.notifyLocked(NotificationError, userMessage(err, "Commit failed"))
		return err
	}
	o.notifyLocked(NotificationSuccess, "Commit request submitted")
	return nil
}

// beginLocked checks that a validate or commit may start
func (o *Orchestrator) beginLocked() error {
	if o.validating || o.committing {
		return &errors.ErrPrecondition{Reason: errors.ReasonOperationInFlight}
	}
	if o.session == nil {
		return &errors.ErrPrecondition{Reason: errors.ReasonNoRecord}
	}
	return nil
}

func (o *Orchestrator) recordCommit(ctx context.Context, accountID int64, payload domain.CommitPayload, commitErr error) {
	if o.journal == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		o.logger.Error("Failed to encode commit payload for journal", zap.Error(err))
		return
	}
	rec := &domain.CommitRecord{
		ID:          uuid.New(),
		AccountID:   accountID,
		ProductID:   payload.ProductID,
		Title:       strings.TrimSpace(payload.Title),
		PayloadJSON: string(body),
		Status:      domain.CommitStatusSuccess,
		Message:     "Updated catalog and saved local record.",
		CreatedAt:   time.Now(),
	}
	if commitErr != nil {
		rec.Status = domain.CommitStatusFailed
		rec.Message = "Catalog update failed: " + commitErr.Error()
	}
	// the journal outlives the request
	if err := o.journal.Create(context.WithoutCancel(ctx), rec); err != nil {
		o.logger.Error("Failed to write commit journal", zap.Error(err), zap.String("product_id", payload.ProductID))
	}
}

// setState moves the base state. Validating and Committing are tracked by the
// in-flight flags and reported by State.
func (o *Orchestrator) setState(to domain.WorkflowState) {
	if o.state == to {
		return
	}
	if !o.state.CanTransitionTo(to) {
		o.logger.Warn("Unexpected workflow transition",
			zap.Error(&errors.ErrInvalidStateTransition{From: o.state, To: to}))
	}
	o.state = to
}

// settleLocked moves Idle or ResolvingAccount to Ready; a running load keeps
// its state.
func (o *Orchestrator) settleLocked() {
	if o.state != domain.WorkflowStateLoadingRecord {
		o.setState(domain.WorkflowStateReady)
	}
}

// State returns the current workflow state
func (o *Orchestrator) State() domain.WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Orchestrator) stateLocked() domain.WorkflowState {
	if o.state == domain.WorkflowStateReady {
		switch {
		case o.validating:
			return domain.WorkflowStateValidating
		case o.committing:
			return domain.WorkflowStateCommitting
		}
	}
	return o.state
}

// AccountID returns the resolved account, 0 if none
func (o *Orchestrator) AccountID() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.accountID
}

// ProductID returns the canonical id of the current product
func (o *Orchestrator) ProductID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.productID
}

// userMessage returns the server message of a transport failure, the reason of
// a precondition failure, or fallback.
func userMessage(err error, fallback string) string {
	var tErr *errors.ErrTransport
	if stderrors.As(err, &tErr) {
		return tErr.UserMessage(fallback)
	}
	var pErr *errors.ErrPrecondition
	if stderrors.As(err, &pErr) && pErr.Reason == errors.ReasonNoAccount {
		return "No account configured. Please go to Settings first."
	}
	return fallback
}
