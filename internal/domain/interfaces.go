package domain

import (
	"context"
	"io"
)

// ResultRepository persists the outcome of compared document pairs
type ResultRepository interface {
	Save(ctx context.Context, runID string, result PairResult) error
}

// ResultHistory reads back stored results of earlier runs
type ResultHistory interface {
	ListByRun(ctx context.Context, runID string) ([]PairResult, error)
}

// ArtifactStore persists diff images. It returns the location the artifact
// was written to.
type ArtifactStore interface {
	SavePage(ctx context.Context, documentName string, pageNumber int, png []byte) (string, error)
}

// RunService starts and tracks asynchronous comparison runs
type RunService interface {
	Start(req RunRequest) (*ComparisonRun, error)
	Get(id string) (*ComparisonRun, error)
	List() []*ComparisonRun
}

// StorageService uploads files to remote object storage
type StorageService interface {
	Upload(ctx context.Context, path string, file io.Reader, contentType string) error
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetOutputDir() string
	GetCompareMode() string
	GetWorkerCount() int
	GetFilePrefix() string
	GetResultFile() string
	GetStrictLoad() bool
	GetAPIToken() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetSupabaseResultsTable() string
	GetSupabaseBucket() string
}
