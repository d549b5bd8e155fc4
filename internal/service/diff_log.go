package service

import (
	"fmt"
	"path/filepath"

	"pdf-diff/internal/domain"
)

// DiffLog collects the human-readable difference lines of one document pair.
// Each job owns its own DiffLog; it is not safe for concurrent use.
type DiffLog struct {
	logger domain.Logger
	lines  []string
}

// NewDiffLog creates a difference sink mirroring every line to logger
func NewDiffLog(logger domain.Logger) *DiffLog {
	return &DiffLog{logger: logger}
}

// Missing records an element that has no acceptable counterpart.
// pageIndex is 0-based; the line reports it 1-based.
func (d *DiffLog) Missing(path string, pageIndex int, e domain.Element) {
	line := fmt.Sprintf("%s page %d: no match for %s", filepath.Base(path), pageIndex+1, e.Describe())
	d.add(line)
}

// VisuallyDifferent records an element whose pixels differ.
func (d *DiffLog) VisuallyDifferent(path string, pageIndex int, e domain.Element, relativeDiff float64) {
	line := fmt.Sprintf("%s page %d: visual difference %.3f for %s", filepath.Base(path), pageIndex+1, relativeDiff, e.Describe())
	d.add(line)
}

// Lines returns the recorded lines in order
func (d *DiffLog) Lines() []string {
	return d.lines
}

func (d *DiffLog) add(line string) {
	d.lines = append(d.lines, line)
	if d.logger != nil {
		d.logger.Info(line)
	}
}
