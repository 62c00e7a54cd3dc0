// Package errs defines the error kinds shared by the settlement workflow.
//
// Stores and services wrap these sentinels with context; callers classify with errors.Is
// or with Kind when mapping to a transport status.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = errors.New("storage failure")
)

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, ErrNotFound)
}

// InvalidState returns an ErrInvalidState with a formatted reason.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidState)
}

// Validation returns an ErrValidation with a formatted reason.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// Storage classifies err as a storage failure unless it already carries a domain kind.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}

	if Kind(err) != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// Kind returns the sentinel err is classified as, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidState, ErrValidation, ErrStorage} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return nil
}
