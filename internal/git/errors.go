package git

import (
	"errors"
	"fmt"
)

// ErrNotARepository is returned when the configured root does not
// contain a git repository.
var ErrNotARepository = errors.New("not a git repository")

// ErrDirtyWorktree is returned when the working tree contains
// uncommitted modifications to tracked files.
var ErrDirtyWorktree = errors.New("working tree has uncommitted changes")

// ErrDirtyIndex is returned when the staging area contains changes
// that have not been committed.
var ErrDirtyIndex = errors.New("index has staged changes")

// ErrPushRejected is returned when the remote refuses a push that is
// not a fast-forward update.
var ErrPushRejected = errors.New("push rejected by remote")

// ErrAuthFailed is returned when authentication was attempted but
// failed (invalid credentials, expired tokens, etc.).
var ErrAuthFailed = errors.New("authentication failed")

// ErrAlreadyUpToDate is returned when a push results in no changes
// because the local and remote states are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrInvalidRef is returned when a reference name is malformed or
// missing.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision cannot be resolved to
// a valid commit hash.
var ErrResolveFailed = errors.New("cannot resolve revision")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while
// preserving the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
