package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"pdf-diff/internal/domain"
	apperrors "pdf-diff/pkg/errors"

	"github.com/google/uuid"
)

// RunRegistry starts comparison runs in the background and keeps their
// status in memory.
type RunRegistry struct {
	discovery   *Discovery
	comparisons *ComparisonService
	logger      domain.Logger

	// ctx bounds every run; Shutdown cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.RWMutex
	runs map[string]*domain.ComparisonRun
	done map[string]chan struct{}
}

// NewRunRegistry creates a new run registry
func NewRunRegistry(discovery *Discovery, comparisons *ComparisonService, logger domain.Logger) *RunRegistry {
	ctx, cancel := context.WithCancel(context.Background())
	return &RunRegistry{
		ctx:         ctx,
		cancel:      cancel,
		discovery:   discovery,
		comparisons: comparisons,
		logger:      logger,
		runs:        make(map[string]*domain.ComparisonRun),
		done:        make(map[string]chan struct{}),
	}
}

// Start validates req, discovers the document pairs and runs the comparison
// asynchronously. Discovery errors are returned synchronously.
func (r *RunRegistry) Start(req domain.RunRequest) (*domain.ComparisonRun, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError("invalid comparison request", err.Error())
	}
	mode, _ := domain.ParseComparisonMode(req.Mode)

	pairs, err := r.discovery.FindPairs(req.DirA, req.DirB, req.Prefix)
	if err != nil {
		return nil, apperrors.NewValidationError("failed to discover documents", err.Error())
	}
	if len(pairs) == 0 {
		return nil, apperrors.NewValidationError("no document pairs found", domain.ErrNoPairs.Error())
	}

	now := time.Now()
	run := &domain.ComparisonRun{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    domain.RunPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	done := make(chan struct{})

	r.mu.Lock()
	r.runs[run.ID] = run
	r.done[run.ID] = done
	r.mu.Unlock()

	go r.execute(run.ID, pairs, mode, done)

	return r.Get(run.ID)
}

func (r *RunRegistry) execute(id string, pairs []domain.PairSpec, mode domain.ComparisonMode, done chan struct{}) {
	defer close(done)
	r.update(id, func(run *domain.ComparisonRun) {
		run.Status = domain.RunRunning
	})

	summary, err := r.comparisons.Run(r.ctx, id, pairs, mode)
	if err == nil && r.ctx.Err() != nil {
		err = fmt.Errorf("comparison run cancelled: %w", r.ctx.Err())
	}

	r.update(id, func(run *domain.ComparisonRun) {
		run.Summary = summary
		if err != nil {
			r.logger.Error("Comparison run failed", err, "run_id", id)
			run.Status = domain.RunFailed
			run.Error = err.Error()
			return
		}
		run.Status = domain.RunFinished
	})
}

func (r *RunRegistry) update(id string, fn func(run *domain.ComparisonRun)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return
	}
	fn(run)
	run.UpdatedAt = time.Now()
}

// Get returns a snapshot of the run with the given id
func (r *RunRegistry) Get(id string) (*domain.ComparisonRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(domain.ErrRunNotFound.Error())
	}
	snapshot := *run
	return &snapshot, nil
}

// List returns snapshots of all runs, oldest first
func (r *RunRegistry) List() []*domain.ComparisonRun {
	r.mu.RLock()
	out := make([]*domain.ComparisonRun, 0, len(r.runs))
	for _, run := range r.runs {
		snapshot := *run
		out = append(out, &snapshot)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Wait blocks until the run finishes or ctx is done
func (r *RunRegistry) Wait(ctx context.Context, id string) error {
	r.mu.RLock()
	done, ok := r.done[id]
	r.mu.RUnlock()
	if !ok {
		return domain.ErrRunNotFound
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown cancels every run and waits for them to stop or for ctx to end.
// Runs started afterwards fail immediately.
func (r *RunRegistry) Shutdown(ctx context.Context) error {
	r.cancel()

	r.mu.RLock()
	pending := make([]chan struct{}, 0, len(r.done))
	for _, done := range r.done {
		pending = append(pending, done)
	}
	r.mu.RUnlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
