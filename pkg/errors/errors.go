// Package errors provides custom error types for the planets service.
// Every failure the query layer can report maps to one of a small set of
// kinds, so callers and the HTTP boundary can branch with errors.Is instead
// of matching on message text.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Sentinel errors for the planets service
var (
	// ErrNotFound indicates that a requested planet was not found
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a planet with the same name already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidData indicates that a planet record failed validation
	ErrInvalidData = errors.New("invalid data")

	// ErrInvalidInput indicates that a query referenced unknown or malformed input
	ErrInvalidInput = errors.New("invalid input")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", capitalize(e.Resource), e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// AlreadyExistsError represents a create or rename that collides with an
// existing record.
type AlreadyExistsError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists.", capitalize(e.Resource), e.ID)
}

// Is implements errors.Is support
func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(resource, id string) *AlreadyExistsError {
	return &AlreadyExistsError{Resource: resource, ID: id}
}

// ValidationError represents a record that failed validation
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidData
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// InputError represents a query whose arguments could not be resolved.
type InputError struct {
	Message string
	Args    []string
}

// Error implements the error interface
func (e *InputError) Error() string {
	return e.Message
}

// Is implements errors.Is support
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates a new InputError
func NewInputError(message string, args ...string) *InputError {
	return &InputError{Message: message, Args: args}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// StorageError represents a failure in the storage backend itself, as
// opposed to a domain condition like a missing record.
type StorageError struct {
	Operation string // "open", "migrate", "get", "list", "create", "update", "delete", "replace"
	Backend   string
	Err       error
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return fmt.Sprintf("%s storage: %s failed: %v", e.Backend, e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(backend, operation string, err error) *StorageError {
	return &StorageError{
		Operation: operation,
		Backend:   backend,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidData checks if an error is a validation error
func IsInvalidData(err error) bool {
	return errors.Is(err, ErrInvalidData)
}

// IsInvalidInput checks if an error is an invalid input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapStorage wraps an error as a StorageError
func WrapStorage(backend, operation string, err error) error {
	if err == nil {
		return nil
	}
	return NewStorageError(backend, operation, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
