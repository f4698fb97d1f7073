package optimistic

import (
	"errors"
	"fmt"
)

// Op identifies the service call that failed.
type Op string

const (
	OpFetch   Op = "fetch"
	OpSubmit  Op = "submit"
	OpRestore Op = "restore"
)

// Error is a failed service call. None of them are fatal to the presenter.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrNotLoaded is reported when pinning the default before any value
	// has been loaded.
	ErrNotLoaded = errors.New("setting not loaded yet")

	// ErrNotAttached is returned by Send on a presenter that is not running.
	ErrNotAttached = errors.New("presenter not attached")

	// ErrAlreadyAttached is returned by a second Attach.
	ErrAlreadyAttached = errors.New("presenter already attached")
)
