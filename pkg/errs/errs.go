package errs

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// Network covers timeouts, transport failures and non-2xx responses.
	Network Kind = "network"
	// Parse covers markup or JSON that lacks an expected field.
	Parse Kind = "parse"
	// Filesystem covers directory creation and file writes.
	Filesystem Kind = "filesystem"
	// Database covers ledger reads and writes.
	Database Kind = "database"
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s error", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func NewNetwork(op string, err error) *Error {
	return New(Network, op, err)
}

func NewParse(op string, err error) *Error {
	return New(Parse, op, err)
}

func NewFilesystem(op string, err error) *Error {
	return New(Filesystem, op, err)
}

func NewDatabase(op string, err error) *Error {
	return New(Database, op, err)
}

// Is reports whether any error in err's chain is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
