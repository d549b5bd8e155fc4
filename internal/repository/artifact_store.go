package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdf-diff/internal/domain"
)

// FileArtifactStore writes diff images to <outputDir>/<basename>_pdf/page_<N>.png
// and optionally mirrors them to remote storage.
type FileArtifactStore struct {
	outputDir string
	storage   domain.StorageService
	logger    domain.Logger
}

// NewFileArtifactStore creates an artifact store; storage may be nil
func NewFileArtifactStore(outputDir string, storage domain.StorageService, logger domain.Logger) domain.ArtifactStore {
	return &FileArtifactStore{
		outputDir: outputDir,
		storage:   storage,
		logger:    logger,
	}
}

// ArtifactPath returns the path, relative to the output directory, of the
// diff image of a page (1-based).
func ArtifactPath(documentName string, pageNumber int) string {
	base := filepath.Base(documentName)
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	return filepath.Join(base+"_pdf", fmt.Sprintf("page_%d.png", pageNumber))
}

// SavePage writes the PNG and returns its local path. Upload failures are
// logged and do not fail the save.
func (s *FileArtifactStore) SavePage(ctx context.Context, documentName string, pageNumber int, png []byte) (string, error) {
	rel := ArtifactPath(documentName, pageNumber)
	full := filepath.Join(s.outputDir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(full, png, 0o644); err != nil {
		return "", fmt.Errorf("failed to write diff image: %w", err)
	}

	if s.storage != nil {
		if err := s.storage.Upload(ctx, filepath.ToSlash(rel), bytes.NewReader(png), "image/png"); err != nil {
			s.logger.Warn("Failed to upload diff image", "path", rel, "error", err)
		}
	}
	return full, nil
}
