package application

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/prtrack/internal/domain/port/driven"
)

// ErrCommentNotFound aliases the port-level sentinel so callers import only the application package.
var ErrCommentNotFound = driven.ErrCommentNotFound

// ErrMissingThreadID is returned when a resolve or unresolve targets a
// comment whose thread reference is unknown. Re-running sync usually fixes it.
var ErrMissingThreadID = errors.New("comment has no thread id; run sync first")

// ErrCancelled is returned when the user declines a bulk confirmation.
var ErrCancelled = errors.New("cancelled")

// BatchResolveError reports a bulk resolve that stopped at FailedID.
// Completed lists the ids resolved before the failure.
type BatchResolveError struct {
	Completed []int64
	FailedID  int64
	Err       error
}

func (e *BatchResolveError) Error() string {
	return fmt.Sprintf("bulk resolve stopped at comment %d after %d resolved: %v",
		e.FailedID, len(e.Completed), e.Err)
}

func (e *BatchResolveError) Unwrap() error {
	return e.Err
}
