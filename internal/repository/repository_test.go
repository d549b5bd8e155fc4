package repository

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdf-diff/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/supabase-go"
)

type MockLogger struct{}

func (m *MockLogger) Info(msg string, args ...interface{})             {}
func (m *MockLogger) Error(msg string, err error, args ...interface{}) {}
func (m *MockLogger) Debug(msg string, args ...interface{})            {}
func (m *MockLogger) Warn(msg string, args ...interface{})             {}

type recordingStorage struct {
	paths []string
	err   error
}

func (s *recordingStorage) Upload(ctx context.Context, path string, file io.Reader, contentType string) error {
	s.paths = append(s.paths, path)
	return s.err
}

type failingRepository struct{ err error }

func (r failingRepository) Save(ctx context.Context, runID string, result domain.PairResult) error {
	return r.err
}

func TestFileResultRepository_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.txt")
	repo := NewFileResultRepository(path, &MockLogger{})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "run", domain.PairResult{Name: "a.pdf", Different: true, DifferentPages: []int{1, 3}}))
	require.NoError(t, repo.Save(ctx, "run", domain.PairResult{Name: "same.pdf"}))
	require.NoError(t, repo.Save(ctx, "run", domain.PairResult{Name: "b.pdf", Different: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf: 1,3\nb.pdf: \n", string(data))
}

func TestMultiResultRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	boom := errors.New("boom")
	repo := NewMultiResultRepository(nil, failingRepository{err: boom}, NewFileResultRepository(path, &MockLogger{}))

	err := repo.Save(context.Background(), "run", domain.PairResult{Name: "a.pdf", Different: true, DifferentPages: []int{2}})

	assert.ErrorIs(t, err, boom)
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "a.pdf: 2\n", string(data))
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		name string
		page int
		want string
	}{
		{"invoice.pdf", 1, filepath.Join("invoice_pdf", "page_1.png")},
		{"Report.PDF", 12, filepath.Join("Report_pdf", "page_12.png")},
		{"notes", 2, filepath.Join("notes_pdf", "page_2.png")},
	}
	for _, tt := range tests {
		if got := ArtifactPath(tt.name, tt.page); got != tt.want {
			t.Fatalf("ArtifactPath(%q, %d) = %q, want %q", tt.name, tt.page, got, tt.want)
		}
	}
}

func TestFileArtifactStore_SavePage(t *testing.T) {
	dir := t.TempDir()
	storage := &recordingStorage{err: errors.New("bucket missing")}
	store := NewFileArtifactStore(dir, storage, &MockLogger{})

	location, err := store.SavePage(context.Background(), "invoice.pdf", 2, []byte("png"))

	require.NoError(t, err, "upload failures must not fail the save")
	assert.Equal(t, filepath.Join(dir, "invoice_pdf", "page_2.png"), location)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, []string{"invoice_pdf/page_2.png"}, storage.paths)
}

func TestResultRow(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	row := resultRow("run-1", domain.PairResult{Name: "a.pdf", State: domain.StateDone, Different: true}, now)

	assert.Equal(t, "run-1", row["run_id"])
	assert.Equal(t, "a.pdf", row["document"])
	assert.Equal(t, "done", row["state"])
	assert.Equal(t, []int{}, row["different_pages"])
	assert.Equal(t, now, row["created_at"])
}

func TestDecodeResults(t *testing.T) {
	data := []byte(`[{"document":"a.pdf","path_a":"x/a.pdf","path_b":"y/a.pdf","state":"done","different":true,"different_pages":[1,2],"artifacts":["a_pdf/page_1.png"],"error":"","run_id":"r"}]`)

	results, err := decodeResults(data)

	require.NoError(t, err)
	assert.Equal(t, []domain.PairResult{{
		Name:           "a.pdf",
		PathA:          "x/a.pdf",
		PathB:          "y/a.pdf",
		State:          domain.StateDone,
		Different:      true,
		DifferentPages: []int{1, 2},
		Artifacts:      []string{"a_pdf/page_1.png"},
	}}, results)

	_, err = decodeResults([]byte(`{`))
	assert.Error(t, err)
}

type unconfiguredClient struct{ domain.SupabaseClient }

func (unconfiguredClient) DB() *supabase.Client { return nil }

func TestSupabaseResultRepository_NotInitialized(t *testing.T) {
	repo := NewSupabaseResultRepository(unconfiguredClient{}, "comparison_results", &MockLogger{})

	assert.Error(t, repo.Save(context.Background(), "run", domain.PairResult{Name: "a.pdf"}))
	_, err := repo.ListByRun(context.Background(), "run")
	assert.Error(t, err)
}
