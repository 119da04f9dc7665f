package params

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents the type of declaration error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	TypeResolutionErrorCode
	DuplicateIndexErrorCode
	InvalidIndexErrorCode
	SealedErrorCode
	SyntaxErrorCode
	UnknownValidatorErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case TypeResolutionErrorCode:
		return "TypeResolutionError"
	case DuplicateIndexErrorCode:
		return "DuplicateIndexWarning"
	case InvalidIndexErrorCode:
		return "InvalidIndexError"
	case SealedErrorCode:
		return "SealedError"
	case SyntaxErrorCode:
		return "SyntaxError"
	case UnknownValidatorErrorCode:
		return "UnknownValidatorError"
	default:
		return "UnknownError"
	}
}

// ParamError is implemented by every error raised during the declaration phase
type ParamError interface {
	error
	ErrorCode() ErrorCode
	Suggestions() []string
	Unwrap() error
}

// ErrSealed is returned when declaring against a registry after Seal
var ErrSealed = errors.New("parameter registry is sealed")

// TypeResolutionError reports that parameter types were unavailable for a method.
// The declaration still completes and records UnknownType.
type TypeResolutionError struct {
	Key   MethodKey
	Index int
	Cause error
}

func (e *TypeResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve type of parameter %d on %s", e.Index, e.Key)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TypeResolutionError) ErrorCode() ErrorCode { return TypeResolutionErrorCode }
func (e *TypeResolutionError) Unwrap() error        { return e.Cause }

func (e *TypeResolutionError) Suggestions() []string {
	return []string{
		"Ensure the method is exported and defined on the owner type",
		"Pass a pointer owner, e.g. (*Controller)(nil), for pointer-receiver methods",
	}
}

// DuplicateIndexError flags two declarations against the same parameter position.
// Both descriptors are kept; the condition becomes fatal at Seal.
type DuplicateIndexError struct {
	Key     MethodKey
	Index   int
	Sources []Source
}

func (e *DuplicateIndexError) Error() string {
	names := make([]string, len(e.Sources))
	for i, s := range e.Sources {
		names[i] = s.String()
	}
	return fmt.Sprintf("parameter %d on %s declared %d times (%s)",
		e.Index, e.Key, len(e.Sources), strings.Join(names, ", "))
}

func (e *DuplicateIndexError) ErrorCode() ErrorCode { return DuplicateIndexErrorCode }
func (e *DuplicateIndexError) Unwrap() error        { return nil }

func (e *DuplicateIndexError) Suggestions() []string {
	return []string{"Remove all but one declaration for this parameter position"}
}

// InvalidIndexError reports a parameter position outside the method signature
type InvalidIndexError struct {
	Key   MethodKey
	Index int
	Count int // parameter count, -1 when unknown
}

func (e *InvalidIndexError) Error() string {
	if e.Count < 0 {
		return fmt.Sprintf("invalid parameter index %d on %s", e.Index, e.Key)
	}
	return fmt.Sprintf("invalid parameter index %d on %s: method has %d parameters", e.Index, e.Key, e.Count)
}

func (e *InvalidIndexError) ErrorCode() ErrorCode { return InvalidIndexErrorCode }
func (e *InvalidIndexError) Unwrap() error        { return nil }

func (e *InvalidIndexError) Suggestions() []string {
	return []string{"Parameter indices are zero-based and exclude the receiver"}
}

// SyntaxError reports a malformed textual declaration
type SyntaxError struct {
	Text   string
	Column int
	Cause  error
}

func (e *SyntaxError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("invalid declaration %q at column %d: %v", e.Text, e.Column, e.Cause)
	}
	return fmt.Sprintf("invalid declaration %q: %v", e.Text, e.Cause)
}

func (e *SyntaxError) ErrorCode() ErrorCode { return SyntaxErrorCode }
func (e *SyntaxError) Unwrap() error        { return e.Cause }

func (e *SyntaxError) Suggestions() []string {
	return []string{
		`Declarations look like query(page, required) or header("x-trace")`,
		"Sources: url, query, body, req, res, header",
	}
}

// UnknownValidatorError reports a validator name missing from the Validators set
type UnknownValidatorError struct {
	Name string
}

func (e *UnknownValidatorError) Error() string {
	return fmt.Sprintf("unknown validator: %s", e.Name)
}

func (e *UnknownValidatorError) ErrorCode() ErrorCode { return UnknownValidatorErrorCode }
func (e *UnknownValidatorError) Unwrap() error        { return nil }

func (e *UnknownValidatorError) Suggestions() []string {
	return []string{"Register the validator with Validators.Register before parsing"}
}

// IsWarning reports whether err only carries load-time warnings that left a
// usable descriptor behind (type resolution failures and duplicate indices).
func IsWarning(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range flatten(err) {
		var pe ParamError
		if !errors.As(e, &pe) {
			return false
		}
		switch pe.ErrorCode() {
		case TypeResolutionErrorCode, DuplicateIndexErrorCode:
		default:
			return false
		}
	}
	return true
}

// Must panics when err is a hard declaration failure. Warnings pass through.
func Must(err error) {
	if err != nil && !IsWarning(err) {
		panic(err)
	}
}

// CodeOf returns the error code of the first ParamError in err's chain
func CodeOf(err error) ErrorCode {
	var pe ParamError
	if errors.As(err, &pe) {
		return pe.ErrorCode()
	}
	return UnknownErrorCode
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
