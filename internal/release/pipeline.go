package release

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Validator confirms the source tree has no uncommitted or staged
// changes. It gates everything downstream.
type Validator interface {
	VerifyClean(ctx context.Context) error
}

// TagResult describes the release marker used by one invocation.
type TagResult struct {
	Name   string
	Hash   string
	Reused bool
}

// Tagger creates or idempotently reuses the release marker and
// publishes it to the remote version-control endpoint.
type Tagger interface {
	EnsureTag(ctx context.Context, name string) (TagResult, error)
	PushRelease(ctx context.Context, name string) error
}

// Archiver packages the project directory into a single compressed
// artifact and returns its path.
type Archiver interface {
	Build(ctx context.Context, tagName string, now time.Time) (string, error)
}

// Uploader replicates the artifact to object storage and returns the
// canonical remote URI.
type Uploader interface {
	Upload(ctx context.Context, archivePath, tagName string) (string, error)
}

// Pipeline composes the snapshot stages. It is strictly sequential and
// single-use: construct one per invocation. A nil Uploader means
// remote replication is not configured and the upload stage is
// skipped, which is a normal outcome, not an error.
type Pipeline struct {
	Validator Validator
	Tagger    Tagger
	Archiver  Archiver
	Uploader  Uploader

	// Clock supplies the archive timestamp. Defaults to time.Now.
	Clock func() time.Time

	// Warn receives operator warnings (tag reuse). Defaults to
	// io.Discard.
	Warn io.Writer

	state State
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State {
	return p.state
}

// Run executes the pipeline for the given tag name. Every stage is
// fail-fast: the first failure aborts the run with a StageError and no
// later stage executes. The one deliberate exception to all-or-nothing
// is that a successfully built archive is retained even when the
// subsequent upload fails, so the operator can retry the upload alone.
//
// The returned Summary is non-nil whenever any stage ran; on failure
// it carries the results accumulated so far.
func (p *Pipeline) Run(ctx context.Context, tagName string) (*Summary, error) {
	if tagName == "" {
		return nil, fmt.Errorf("tag name is required")
	}

	clock := p.Clock
	if clock == nil {
		clock = time.Now
	}
	warn := p.Warn
	if warn == nil {
		warn = io.Discard
	}

	summary := &Summary{Tag: tagName}

	p.state = StateValidating
	if err := p.Validator.VerifyClean(ctx); err != nil {
		return p.fail(summary, StageValidate, err)
	}
	summary.record(StageValidate, "working tree clean")

	p.state = StateTagging
	tag, err := p.Tagger.EnsureTag(ctx, tagName)
	if err != nil {
		return p.fail(summary, StageTag, err)
	}
	summary.TagReused = tag.Reused
	if tag.Reused {
		fmt.Fprintf(warn, "warning: tag %s already exists locally, reusing it\n", tagName)
		summary.record(StageTag, fmt.Sprintf("reused existing tag %s (%s)", tag.Name, shortHash(tag.Hash)))
	} else {
		summary.record(StageTag, fmt.Sprintf("created tag %s (%s)", tag.Name, shortHash(tag.Hash)))
	}
	if err := p.Tagger.PushRelease(ctx, tagName); err != nil {
		return p.fail(summary, StageTag, err)
	}
	summary.record(StageTag, "pushed branch and tag to remote")

	p.state = StateArchiving
	archivePath, err := p.Archiver.Build(ctx, tagName, clock())
	if err != nil {
		return p.fail(summary, StageArchive, err)
	}
	summary.ArchivePath = archivePath
	summary.record(StageArchive, fmt.Sprintf("built %s", archivePath))

	if p.Uploader == nil {
		p.state = StateSkipUpload
		summary.UploadSkipped = true
		summary.record(StageUpload, "skipped: no bucket configured")
	} else {
		p.state = StateUploading
		uri, err := p.Uploader.Upload(ctx, archivePath, tagName)
		if err != nil {
			// The local archive stays on disk as the durable fallback.
			summary.results = append(summary.results, OperationResult{
				Stage:   StageUpload,
				OK:      false,
				Message: fmt.Sprintf("upload failed, local archive retained at %s", archivePath),
			})
			p.state = StateFailed
			return summary, &StageError{Stage: StageUpload, Err: err}
		}
		summary.RemoteURI = uri
		summary.record(StageUpload, fmt.Sprintf("uploaded to %s", uri))
	}

	p.state = StateDone
	return summary, nil
}

// fail records the failure, moves the pipeline to its terminal state,
// and wraps the cause with the stage it occurred in.
func (p *Pipeline) fail(summary *Summary, stage Stage, err error) (*Summary, error) {
	summary.results = append(summary.results, OperationResult{
		Stage:   stage,
		OK:      false,
		Message: err.Error(),
	})
	p.state = StateFailed
	return summary, &StageError{Stage: stage, Err: err}
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
