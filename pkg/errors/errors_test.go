package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

var errSentinel = stderrors.New("sentinel")

func TestAppError_WrapsCause(t *testing.T) {
	err := NewLoadError("a.pdf", errSentinel)

	if !stderrors.Is(err, errSentinel) {
		t.Fatalf("expected cause to be reachable through errors.Is")
	}
	if GetStatusCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status %d", GetStatusCode(err))
	}
}

func TestIsType_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("job: %w", NewWorkerError("report.pdf", errSentinel))

	if !IsType(wrapped, ErrorTypeWorker) {
		t.Fatalf("expected worker error type")
	}
	if IsType(wrapped, ErrorTypeLoad) {
		t.Fatalf("did not expect load error type")
	}
	if GetStatusCode(stderrors.New("plain")) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain errors")
	}
}

func TestAppError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"details", NewPageCountMismatchError("r.pdf", 2, 3, nil), "page_count_mismatch: r.pdf (2 pages vs 3 pages)"},
		{"cause", NewGeometryError("box", errSentinel), "geometry_out_of_bounds: box: sentinel"},
		{"plain", NewNotFoundError("run"), "not_found: run"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
