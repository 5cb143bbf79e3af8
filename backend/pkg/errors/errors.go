package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSource represents input table errors
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeStore represents backing store errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeIngest represents per-record ingestion errors
	ErrorTypeIngest ErrorType = "ingest"
	// ErrorTypeQuery represents query input and lookup errors
	ErrorTypeQuery ErrorType = "query"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Warning   bool  // informational outcome rather than a failure
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

func newWarning(errType ErrorType, message string) *BaseError {
	base := NewBaseError(errType, message, nil)
	base.Warning = true
	return base
}

// Source Errors

// SourceReadError is returned when an input table is missing or malformed.
// It aborts the load operation.
type SourceReadError struct {
	*BaseError
	Path string
	Line int
}

func NewSourceReadError(path string, line int, err error) *SourceReadError {
	msg := fmt.Sprintf("cannot read table %s", path)
	if line > 0 {
		msg = fmt.Sprintf("cannot read table %s at line %d", path, line)
	}
	return &SourceReadError{
		BaseError: NewBaseError(ErrorTypeSource, msg, err),
		Path:      path,
		Line:      line,
	}
}

// EmptySourceWarning reports a table with a header but no data rows
type EmptySourceWarning struct {
	*BaseError
	Path string
}

func NewEmptySourceWarning(path string) *EmptySourceWarning {
	return &EmptySourceWarning{
		BaseError: newWarning(ErrorTypeSource, fmt.Sprintf("table %s has no data rows", path)),
		Path:      path,
	}
}

// Store Errors

// StoreConnectionError is returned when a backing store cannot be reached at startup
type StoreConnectionError struct {
	*BaseError
	Store    string
	Endpoint string
}

func NewStoreConnectionError(store, endpoint string, err error) *StoreConnectionError {
	return &StoreConnectionError{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("failed to connect to %s store: %s", store, endpoint), err),
		Store:     store,
		Endpoint:  endpoint,
	}
}

// Ingest Errors

// RecordIngestError is returned when one record could not be validated or
// written. The batch it belongs to continues.
type RecordIngestError struct {
	*BaseError
	Key   string
	Stage string // validate, exists, insert, mirror
}

func NewRecordIngestError(key, stage string, err error) *RecordIngestError {
	return &RecordIngestError{
		BaseError: NewBaseError(ErrorTypeIngest, fmt.Sprintf("record %q failed at %s", key, stage), err),
		Key:       key,
		Stage:     stage,
	}
}

// Query Errors

// InvalidIdentifierError is returned when a query identifier does not carry
// the expected kind prefix
type InvalidIdentifierError struct {
	*BaseError
	ID           string
	ExpectedKind string
}

func NewInvalidIdentifierError(id, expectedKind string) *InvalidIdentifierError {
	return &InvalidIdentifierError{
		BaseError:    NewBaseError(ErrorTypeQuery, fmt.Sprintf("identifier %q is not of the form %s::<namespace>:<id>", id, expectedKind), nil),
		ID:           id,
		ExpectedKind: expectedKind,
	}
}

// NotFoundWarning reports a query that ran successfully but matched nothing
type NotFoundWarning struct {
	*BaseError
	Kind string
	Key  string
}

func NewNotFoundWarning(kind, key string) *NotFoundWarning {
	return &NotFoundWarning{
		BaseError: newWarning(ErrorTypeQuery, fmt.Sprintf("no %s found for %q", kind, key)),
		Kind:      kind,
		Key:       key,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

func (e *BaseError) base() *BaseError {
	return e
}

// asBase walks the wrap chain. errors.As cannot be used here because the
// typed errors embed *BaseError and their promoted Unwrap skips it.
func asBase(err error) (*BaseError, bool) {
	for err != nil {
		if carrier, ok := err.(interface{ base() *BaseError }); ok {
			return carrier.base(), true
		}
		err = errors.Unwrap(err)
	}
	return nil, false
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	base, ok := asBase(err)
	return ok && base.Type == errType
}

// IsWarning reports whether err is an informational outcome (empty table,
// nothing found) rather than a failure
func IsWarning(err error) bool {
	base, ok := asBase(err)
	return ok && base.Warning
}
