// Package errors provides error handling utilities for gofq.
// It offers consistent error wrapping and classification so callers can
// distinguish fatal input problems from transient transfer failures and
// provider-switch signals.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Op represents an operation name for error context.
type Op string

// Error represents an application error with context.
type Error struct {
	Op        Op     // Operation that failed
	Kind      Kind   // Category of error
	Accession string // Accession being processed when the error occurred
	Attempts  int    // Attempts made before giving up (transient exhaustion)
	Err       error  // Underlying error
	Msg       string // Additional context message
}

// Kind represents the category of error.
type Kind uint8

const (
	KindUnknown     Kind = iota
	KindInput            // unclassifiable accession, malformed record fields; never retried
	KindTransient        // failed transfer or empty metadata response; retried then escalated
	KindToolMissing      // external tool not on PATH; signals provider fallback, not failure
	KindNotFound         // fetch tool reported the accession does not exist; never retried
	KindLayout           // produced files do not satisfy the declared layout
	KindNetwork
	KindIO
	KindConfig
	KindParse
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindTransient:
		return "transient"
	case KindToolMissing:
		return "tool-missing"
	case KindNotFound:
		return "not-found"
	case KindLayout:
		return "layout"
	case KindNetwork:
		return "network"
	case KindIO:
		return "io"
	case KindConfig:
		return "config"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(string(e.Op))
		b.WriteString(": ")
	}
	if e.Accession != "" {
		b.WriteString(e.Accession)
		b.WriteString(": ")
	}
	if e.Msg != "" {
		b.WriteString(e.Msg)
		if e.Err != nil {
			b.WriteString(": ")
		}
	}
	if e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	if e.Attempts > 0 {
		fmt.Fprintf(&b, " (after %d attempts)", e.Attempts)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Accession is a typed string so E can distinguish an accession
// argument from a plain message.
type Accession string

// Attempts records how many tries were made before the error.
type Attempts int

// E creates a new Error with the given arguments.
// Arguments can be: Op, Kind, Accession, Attempts, error, string (message).
func E(args ...interface{}) *Error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case Accession:
			e.Accession = string(a)
		case Attempts:
			e.Attempts = int(a)
		case error:
			e.Err = a
		case string:
			e.Msg = a
		}
	}
	return e
}

// Wrap wraps an error with an operation name for context.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapMsg wraps an error with an operation name and message.
func WrapMsg(op Op, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Msg: msg, Err: err}
}

// IsKind reports whether err, or any error it wraps, is of the given kind.
func IsKind(err error, kind Kind) bool {
	return GetKind(err) == kind
}

// GetKind returns the kind of the first classified error in err's chain,
// or KindUnknown.
func GetKind(err error) Kind {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return KindUnknown
		}
		if e.Kind != KindUnknown {
			return e.Kind
		}
		err = e.Err
	}
	return KindUnknown
}

// GetAttempts returns the attempt count recorded in err's chain, or zero.
func GetAttempts(err error) int {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return 0
		}
		if e.Attempts > 0 {
			return e.Attempts
		}
		err = e.Err
	}
	return 0
}
