// Package mycoerr defines the small set of error kinds the core API
// surfaces (spec.md §7). Every core operation returns a plain Go error;
// callers that need to distinguish kinds use errors.As against *Error.
package mycoerr

import "fmt"

// Kind classifies an error for CLI exit-code and message-prefix purposes.
type Kind string

const (
	KindIO       Kind = "io"
	KindParse    Kind = "parse"
	KindSchema   Kind = "schema"
	KindCapacity Kind = "capacity"
	KindArgument Kind = "argument"
)

// Error carries a Kind alongside the wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a Kind-tagged error with a message only.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds a Kind-tagged error around an existing cause.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return New(kind, msg)
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}
