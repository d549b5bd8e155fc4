package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ComparisonMode selects which comparators run for a pair.
type ComparisonMode int

const (
	ModeSimple     ComparisonMode = 1
	ModeStructural ComparisonMode = 2
	ModeVisual     ComparisonMode = 3
)

// String returns the lower-case mode name
func (m ComparisonMode) String() string {
	switch m {
	case ModeSimple:
		return "simple"
	case ModeStructural:
		return "structural"
	case ModeVisual:
		return "visual"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseComparisonMode accepts a mode name or its number (1, 2, 3)
func ParseComparisonMode(s string) (ComparisonMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "1":
		return ModeSimple, nil
	case "structural", "2", "":
		return ModeStructural, nil
	case "visual", "3":
		return ModeVisual, nil
	}
	return 0, &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown comparison mode %q", s)}
}

// PairState is the lifecycle of one document pair within a run.
type PairState string

const (
	StateLoaded             PairState = "loaded"
	StateStructureExtracted PairState = "structure_extracted"
	StateStructureCompared  PairState = "structure_compared"
	StateVisuallyCompared   PairState = "visually_compared"
	StateDone               PairState = "done"
	StateFailed             PairState = "failed"
)

// PairSpec names the two files of a document pair found by discovery.
type PairSpec struct {
	Name  string `json:"name"`
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

// PairResult is what a worker reports back for one pair.
type PairResult struct {
	Name           string    `json:"name"`
	PathA          string    `json:"path_a"`
	PathB          string    `json:"path_b"`
	State          PairState `json:"state"`
	Different      bool      `json:"different"`
	DifferentPages []int     `json:"different_pages,omitempty"` // 1-based
	Artifacts      []string  `json:"artifacts,omitempty"`
	Differences    []string  `json:"differences,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// ResultLine formats the textual result line for a pair with differences.
func (r PairResult) ResultLine() string {
	pages := make([]string, len(r.DifferentPages))
	for i, p := range r.DifferentPages {
		pages[i] = strconv.Itoa(p)
	}
	return r.Name + ": " + strings.Join(pages, ",")
}

// RunSummary aggregates a whole comparison run.
type RunSummary struct {
	Mode            ComparisonMode `json:"-"`
	ModeName        string         `json:"mode"`
	Pairs           int            `json:"pairs"`
	DifferentPairs  int            `json:"different_pairs"`
	FailedPairs     int            `json:"failed_pairs"`
	FoundDifference bool           `json:"found_difference"`
	Results         []PairResult   `json:"results"`
	StartedAt       time.Time      `json:"started_at"`
	Elapsed         time.Duration  `json:"elapsed"`
}

// RunStatus is the lifecycle of a comparison run started through the API.
type RunStatus string

const (
	RunPending  RunStatus = "pending"
	RunRunning  RunStatus = "running"
	RunFinished RunStatus = "finished"
	RunFailed   RunStatus = "failed"
)

// RunRequest asks for the comparison of two directories.
type RunRequest struct {
	DirA   string `json:"dir_a"`
	DirB   string `json:"dir_b"`
	Prefix string `json:"prefix"`
	Mode   string `json:"mode"`
}

// Validate checks the required fields of a run request
func (r RunRequest) Validate() error {
	if r.DirA == "" {
		return &ValidationError{Field: "dir_a", Message: "directory is required"}
	}
	if r.DirB == "" {
		return &ValidationError{Field: "dir_b", Message: "directory is required"}
	}
	_, err := ParseComparisonMode(r.Mode)
	return err
}

// ComparisonRun is a run tracked by the run registry.
type ComparisonRun struct {
	ID        string      `json:"id"`
	Request   RunRequest  `json:"request"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
