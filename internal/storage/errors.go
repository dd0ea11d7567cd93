package storage

import (
	"errors"
	"fmt"
)

// ErrClientUnavailable is returned when a bucket is configured but the
// remote storage client cannot be constructed (no resolvable
// credentials, broken SDK configuration). This is distinct from the
// normal skip when no bucket is configured at all.
var ErrClientUnavailable = errors.New("remote storage client unavailable")

// ErrAccessDenied is returned when the remote endpoint rejects the
// request for credential or permission reasons.
var ErrAccessDenied = errors.New("access denied by remote storage")

// Error represents a storage operation error with context about the
// operation that failed. It wraps the underlying AWS SDK error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "client").
	Op string

	// Bucket is the S3 bucket name (if applicable).
	Bucket string

	// Key is the S3 object key (if applicable).
	Key string

	// Err is the underlying error from the AWS SDK or other source.
	Err error
}

// Error implements the error interface by providing a formatted error
// message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("s3.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("s3.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	return fmt.Sprintf("s3.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given operation and underlying
// error.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}
