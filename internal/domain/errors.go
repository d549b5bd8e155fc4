package domain

import "errors"

// Domain errors
var (
	ErrLoad                   = errors.New("pdf could not be loaded")
	ErrPageCountMismatch      = errors.New("page count mismatch")
	ErrGeometryOutOfBounds    = errors.New("element geometry out of bounds")
	ErrMissingCounterpartPage = errors.New("missing counterpart page")
	ErrWorker                 = errors.New("comparison job failed")
	ErrRunNotFound            = errors.New("comparison run not found")
	ErrNoPairs                = errors.New("no document pairs found")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
