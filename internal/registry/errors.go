package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors every typed error below Unwraps to, so callers can
// classify a failure with errors.Is without a type switch.
var (
	ErrNotFound     = errors.New("not found")
	ErrInconsistent = errors.New("inconsistent state")
	ErrPath         = errors.New("path must be relative")
	ErrTransaction  = errors.New("transaction error")
	ErrInternal     = errors.New("internal error")
)

// NotFoundError reports a missing identifier or version in the available
// catalog.
type NotFoundError struct {
	Identifier string
	Version    string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("registry: %s@%s not found", e.Identifier, e.Version)
	}
	return fmt.Sprintf("registry: %s not found", e.Identifier)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InconsistentError reports a violation of the file-ownership invariant,
// either on install (paths already claimed by another module) or on
// deregister (files that still exist on disk).
type InconsistentError struct {
	Messages []string
}

func (e *InconsistentError) Error() string {
	return fmt.Sprintf("registry: inconsistent state: %s", strings.Join(e.Messages, "; "))
}

func (e *InconsistentError) Unwrap() error { return ErrInconsistent }

// PathError reports an absolute path given where a relative path was
// required.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("registry: path must be relative: %s", e.Path)
}

func (e *PathError) Unwrap() error { return ErrPath }

// TransactionError reports a Begin on a registry that already has an
// open transaction, or a Commit/Rollback of a transaction that has
// already completed.
type TransactionError struct {
	Reason string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("registry: transaction error: %s", e.Reason)
}

func (e *TransactionError) Unwrap() error { return ErrTransaction }

// InternalError reports a schema upgrade attempted without the context
// (e.g. a game root) it requires.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("registry: internal error: %s", e.Reason)
}

func (e *InternalError) Unwrap() error { return ErrInternal }
