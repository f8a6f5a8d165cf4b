// Package errors defines the error taxonomy of the data-access layer.
//
// Callers branch on the typed errors (invalid key, not found, bad pagination
// token); everything the store itself rejects is wrapped in RepositoryError
// and should be treated as operational.
package errors

import (
	"errors"
	"fmt"
)

// InvalidKeyError reports a malformed or missing identifier, detected before
// any store call.
type InvalidKeyError struct {
	Field  string
	Reason string
}

func (e InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key for field '%s': %s", e.Field, e.Reason)
}

// NewInvalidKey creates a new InvalidKeyError.
func NewInvalidKey(field, reason string) InvalidKeyError {
	return InvalidKeyError{Field: field, Reason: reason}
}

// IsInvalidKey checks if an error is an InvalidKeyError.
func IsInvalidKey(err error) bool {
	var e InvalidKeyError
	return errors.As(err, &e)
}

// NotFoundError reports an absent required record.
type NotFoundError struct {
	Resource string // e.g. "group", "hangout"
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
}

// NewNotFound creates a new NotFoundError.
func NewNotFound(resource, id string) NotFoundError {
	return NotFoundError{Resource: resource, ID: id}
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

// RepositoryError wraps an underlying store failure with the name of the
// operation that failed. The original error is always retained as the cause.
type RepositoryError struct {
	Op    string
	Cause error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *RepositoryError) Unwrap() error {
	return e.Cause
}

// NewRepository wraps a store failure for the named operation.
func NewRepository(op string, cause error) *RepositoryError {
	return &RepositoryError{Op: op, Cause: cause}
}

// IsRepository checks if an error is a RepositoryError.
func IsRepository(err error) bool {
	var e *RepositoryError
	return errors.As(err, &e)
}

// UnknownItemTypeError reports a stored discriminator with no registered
// decoder.
type UnknownItemTypeError struct {
	ItemType string
}

func (e UnknownItemTypeError) Error() string {
	return fmt.Sprintf("unknown item type: %s", e.ItemType)
}

// IsUnknownItemType checks if an error is an UnknownItemTypeError.
func IsUnknownItemType(err error) bool {
	var e UnknownItemTypeError
	return errors.As(err, &e)
}

// UnrecognizedRecordError reports a record with no discriminator and no
// matching legacy key pattern.
type UnrecognizedRecordError struct {
	PartitionKey string
	SortKey      string
}

func (e UnrecognizedRecordError) Error() string {
	return fmt.Sprintf("missing discriminator and unrecognizable key pattern: pk=%s sk=%s", e.PartitionKey, e.SortKey)
}

// IsUnrecognizedRecord checks if an error is an UnrecognizedRecordError.
func IsUnrecognizedRecord(err error) bool {
	var e UnrecognizedRecordError
	return errors.As(err, &e)
}

// InvalidPaginationTokenError reports a continuation token that could not be
// decoded. Raised before any store call.
type InvalidPaginationTokenError struct {
	Cause error
}

func (e InvalidPaginationTokenError) Error() string {
	return fmt.Sprintf("invalid pagination token: %v", e.Cause)
}

func (e InvalidPaginationTokenError) Unwrap() error {
	return e.Cause
}

// IsInvalidPaginationToken checks if an error is an InvalidPaginationTokenError.
func IsInvalidPaginationToken(err error) bool {
	var e InvalidPaginationTokenError
	return errors.As(err, &e)
}
