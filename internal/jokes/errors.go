package jokes

import (
	"errors"
	"fmt"
)

var (
	ErrMissingID = errors.New("missing joke id")
	ErrNotFound  = errors.New("joke not found")
	ErrConflict  = errors.New("could not find a unique joke")

	// ErrDuplicateID is returned when a created joke's id is already cached.
	ErrDuplicateID = errors.New("joke already exists")
	// ErrIDMismatch is returned when an update body names another id than the path.
	ErrIDMismatch = errors.New("joke id does not match path")

	errEmptyBatch = errors.New("empty response")
)

// UpstreamError wraps a failure talking to the external joke API.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream joke api: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
