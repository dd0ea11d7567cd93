// Package release orchestrates the snapshot pipeline: precondition
// validation, tag lifecycle, archive construction, optional remote
// upload, and result reporting. This file contains the stage and
// result types shared across the pipeline.
package release

import "fmt"

// Stage identifies one pipeline stage in results and errors.
type Stage string

const (
	StageValidate Stage = "validate"
	StageTag      Stage = "tag"
	StageArchive  Stage = "archive"
	StageUpload   Stage = "upload"
)

// State tracks pipeline progress. Control flows strictly forward; a
// stage executes only if the previous one succeeded, and Failed is
// terminal with no retry or recovery transition.
type State int

const (
	StateStart State = iota
	StateValidating
	StateTagging
	StateArchiving
	StateUploading
	StateSkipUpload
	StateDone
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateValidating:
		return "validating"
	case StateTagging:
		return "tagging"
	case StateArchiving:
		return "archiving"
	case StateUploading:
		return "uploading"
	case StateSkipUpload:
		return "skip-upload"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// OperationResult records the outcome of one stage. Results are
// aggregated for the final report and never persisted.
type OperationResult struct {
	Stage   Stage
	OK      bool
	Message string
}

// StageError tags a stage failure with the stage it occurred in. The
// underlying cause is available through errors.Unwrap/Is/As.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *StageError) Unwrap() error {
	return e.Err
}
