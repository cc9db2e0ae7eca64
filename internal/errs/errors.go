// Package errs defines the error taxonomy shared across the deptree core:
// BadInput, ParseFailure, IoFailure, Internal.
package errs

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeBadInput     Code = "BAD_INPUT"
	CodeParseFailure Code = "PARSE_FAILURE"
	CodeIoFailure    Code = "IO_FAILURE"
	CodeInternal     Code = "INTERNAL"
)

const (
	CtxPath      = "path"
	CtxOperation = "operation"
	CtxNode      = "node"
)

type CoreError struct {
	Code    Code
	Message string
	Err     error
	Context map[string]any
}

func (e *CoreError) WithContext(key string, value any) *CoreError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func (e *CoreError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if len(e.Context) > 0 {
		msg += fmt.Sprintf(" %v", e.Context)
	}
	return msg
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func New(code Code, msg string) error {
	return &CoreError{Code: code, Message: msg}
}

func Newf(code Code, format string, args ...any) error {
	return &CoreError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &CoreError{Code: code, Message: msg, Err: err}
}

func AddContext(err error, key string, value any) error {
	var ce *CoreError
	if errors.As(err, &ce) {
		ce.WithContext(key, value)
		return ce
	}
	return &CoreError{
		Code:    CodeInternal,
		Message: "wrapped error",
		Err:     err,
		Context: map[string]any{key: value},
	}
}

func IsCode(err error, code Code) bool {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// BadInput builds a BadInput error carrying the offending user input verbatim,
// per the propagation rule that CLI-surfaced errors quote the bad value.
func BadInput(input string, msg string) error {
	return (&CoreError{Code: CodeBadInput, Message: msg}).WithContext(CtxPath, input)
}
