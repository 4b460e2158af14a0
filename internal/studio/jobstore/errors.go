package jobstore

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/yungbote/studio-tracker/internal/pkg/errors"
	"github.com/yungbote/studio-tracker/internal/pkg/httpx"
)

// FetchError is a transport or backend failure while listing or deleting.
type FetchError struct {
	Op  string
	Err error
	// Retryable is a hint for callers that offer a manual retry.
	Retryable bool
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return "studio store: " + e.Op + " failed"
	}
	return fmt.Sprintf("studio store: %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == pkgerrors.ErrUnavailable }

// NotFoundError reports a delete aimed at a video that no longer exists.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("studio video %s not found", e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == pkgerrors.ErrNotFound }

func newFetchError(op string, err error) *FetchError {
	return &FetchError{Op: op, Err: err, Retryable: httpx.IsRetryableError(err)}
}

func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
