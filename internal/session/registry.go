package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/productconsole/internal/workflow"
	"github.com/jafarshop/productconsole/pkg/errors"
)

// Registry holds the live edit sessions of the console, keyed by id. Sessions
// idle for longer than the TTL are dropped by Run.
type Registry struct {
	newOrchestrator func() *workflow.Orchestrator
	ttl             time.Duration
	logger          *zap.Logger
	now             func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
}

type entry struct {
	orch     *workflow.Orchestrator
	lastSeen time.Time
}

// NewRegistry creates a registry whose sessions share opts (catalog, journal,
// tag vocabulary).
func NewRegistry(opts workflow.Options, ttl time.Duration, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}
	return &Registry{
		newOrchestrator: func() *workflow.Orchestrator { return workflow.New(opts) },
		ttl:             ttl,
		logger:          logger,
		now:             time.Now,
		sessions:        make(map[uuid.UUID]*entry),
	}
}

// Create registers a new session and starts it. The session is kept even when
// Start fails; the failure is also visible in its notifications.
func (r *Registry) Create(ctx context.Context, opts workflow.StartOptions) (uuid.UUID, *workflow.Orchestrator, error) {
	id := uuid.New()
	orch := r.newOrchestrator()

	r.mu.Lock()
	r.sessions[id] = &entry{orch: orch, lastSeen: r.now()}
	r.mu.Unlock()

	err := orch.Start(ctx, opts)
	if err != nil {
		r.logger.Info("Session started with errors", zap.String("session_id", id.String()), zap.Error(err))
	} else {
		r.logger.Debug("Session started", zap.String("session_id", id.String()))
	}
	return id, orch, err
}

// Get returns the session and marks it as used
func (r *Registry) Get(id uuid.UUID) (*workflow.Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "session", ID: id.String()}
	}
	e.lastSeen = r.now()
	return e.orch, nil
}

// Delete drops the session; deleting an unknown id is not an error
func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions until ctx is done. Call from a goroutine.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("Expired idle sessions", zap.Int("count", n), zap.Int("live", r.Len()))
			}
		}
	}
}
