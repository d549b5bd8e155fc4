package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"pdf-diff/internal/domain"
)

// FileResultRepository appends one result line per different document to a
// text file.
type FileResultRepository struct {
	path   string
	logger domain.Logger
	mu     sync.Mutex
}

// NewFileResultRepository creates a repository writing to path
func NewFileResultRepository(path string, logger domain.Logger) domain.ResultRepository {
	return &FileResultRepository{
		path:   path,
		logger: logger,
	}
}

// Save appends the result line of a different document
func (r *FileResultRepository) Save(ctx context.Context, runID string, result domain.PairResult) error {
	if !result.Different {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create result directory: %w", err)
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open result file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, result.ResultLine()); err != nil {
		return fmt.Errorf("failed to write result line: %w", err)
	}
	r.logger.Debug("Result line written", "run_id", runID, "file", result.Name, "path", r.path)
	return nil
}

// MultiResultRepository fans a result out to several repositories. Every
// repository is tried; the first error is returned.
type MultiResultRepository struct {
	repos []domain.ResultRepository
}

// NewMultiResultRepository combines repositories, skipping nil entries
func NewMultiResultRepository(repos ...domain.ResultRepository) domain.ResultRepository {
	m := &MultiResultRepository{}
	for _, r := range repos {
		if r != nil {
			m.repos = append(m.repos, r)
		}
	}
	return m
}

// Save forwards the result to every repository
func (m *MultiResultRepository) Save(ctx context.Context, runID string, result domain.PairResult) error {
	var first error
	for _, r := range m.repos {
		if err := r.Save(ctx, runID, result); err != nil && first == nil {
			first = err
		}
	}
	return first
}
