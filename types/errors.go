package types

import (
	"context"
	"errors"
	"fmt"
)

// SearchSyntaxError is returned when a search string does not follow the search grammar
type SearchSyntaxError struct {
	msg string
}

func (e *SearchSyntaxError) Error() string {
	return e.msg
}

func NewSearchSyntaxError() error {
	return &SearchSyntaxError{"search malformed"}
}

// SortSyntaxError is returned when a sort directive does not match field:ASC|DESC
type SortSyntaxError struct {
	msg string
}

func (e *SortSyntaxError) Error() string {
	return e.msg
}

func NewSortSyntaxError() error {
	return &SortSyntaxError{"sort malformed"}
}

// UnknownFieldError is returned when a well-formed search or sort names a field the schema does not declare
type UnknownFieldError struct {
	Field string
	msg   string
}

func (e *UnknownFieldError) Error() string {
	return e.msg
}

func NewUnknownFieldError(kind string, field string) error {
	return &UnknownFieldError{
		Field: field,
		msg:   fmt.Sprintf("unknown %s field '%s'", kind, field),
	}
}

func NewUnknownObjectTypeError(name string) error {
	return &UnknownFieldError{
		Field: name,
		msg:   fmt.Sprintf("unknown object type '%s'", name),
	}
}

// SearchValueError is returned when a search term value can not be converted to a predicate
type SearchValueError struct {
	Field string
	Cause error
	msg   string
}

func (e *SearchValueError) Error() string {
	return e.msg
}

func (e *SearchValueError) Unwrap() error {
	return e.Cause
}

func NewSearchValueError(field string, cause error) error {
	return &SearchValueError{
		Field: field,
		Cause: cause,
		msg:   fmt.Sprintf("%s search malformed", field),
	}
}

// ConversionError is returned by the value converters
type ConversionError struct {
	Value string
	msg   string
}

func (e *ConversionError) Error() string {
	return e.msg
}

func NewConversionError(value string, format string, args ...interface{}) error {
	return &ConversionError{
		Value: value,
		msg:   fmt.Sprintf(format, args...),
	}
}

// BackendUnavailableError wraps cache and storage failures. Requests failing with it can be retried.
type BackendUnavailableError struct {
	Cause error
	msg   string
}

func (e *BackendUnavailableError) Error() string {
	return e.msg
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Cause
}

func NewBackendUnavailableError(operation string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *BackendUnavailableError
	if errors.As(cause, &existing) {
		return cause
	}
	msg := fmt.Sprintf("%s failed: %s", operation, cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		msg = fmt.Sprintf("%s timed out", operation)
	}
	return &BackendUnavailableError{Cause: cause, msg: msg}
}

// IsClientError returns true when err was caused by the request contents
func IsClientError(err error) bool {
	var (
		searchSyntax *SearchSyntaxError
		sortSyntax   *SortSyntaxError
		unknownField *UnknownFieldError
		searchValue  *SearchValueError
		conversion   *ConversionError
	)
	return errors.As(err, &searchSyntax) ||
		errors.As(err, &sortSyntax) ||
		errors.As(err, &unknownField) ||
		errors.As(err, &searchValue) ||
		errors.As(err, &conversion)
}

// IsRetryable returns true when err was caused by an unavailable cache or storage backend
func IsRetryable(err error) bool {
	var unavailable *BackendUnavailableError
	return errors.As(err, &unavailable)
}
