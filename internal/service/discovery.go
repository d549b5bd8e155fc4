package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdf-diff/internal/domain"
)

// Discovery matches PDF files of two directories by name.
type Discovery struct {
	logger domain.Logger
}

// NewDiscovery creates a new file discovery
func NewDiscovery(logger domain.Logger) *Discovery {
	return &Discovery{logger: logger}
}

// FindPairs returns the files present in both directories, matched
// case-insensitively, restricted to .pdf files starting with prefix.
// Files without counterpart are logged and left out.
func (d *Discovery) FindPairs(dirA, dirB, prefix string) ([]domain.PairSpec, error) {
	filesA, err := d.listPDFs(dirA, prefix)
	if err != nil {
		return nil, err
	}
	filesB, err := d.listPDFs(dirB, prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(filesA))
	for k := range filesA {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var pairs []domain.PairSpec
	for _, k := range keys {
		pathA := filesA[k]
		pathB, ok := filesB[k]
		if !ok {
			d.logger.Warn("No counterpart found, skipping", "file", pathA, "dir", dirB)
			continue
		}
		pairs = append(pairs, domain.PairSpec{
			Name:  filepath.Base(pathA),
			PathA: pathA,
			PathB: pathB,
		})
	}
	for k, pathB := range filesB {
		if _, ok := filesA[k]; !ok {
			d.logger.Warn("No counterpart found, skipping", "file", pathB, "dir", dirA)
		}
	}
	return pairs, nil
}

func (d *Discovery) listPDFs(dir, prefix string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	prefix = strings.ToLower(prefix)
	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := strings.ToLower(entry.Name())
		if !strings.HasSuffix(key, ".pdf") || !strings.HasPrefix(key, prefix) {
			continue
		}
		files[key] = filepath.Join(dir, entry.Name())
	}
	return files, nil
}
