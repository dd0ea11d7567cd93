package git

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// TagRef describes the release marker used by one pipeline invocation.
type TagRef struct {
	// Name is the operator-supplied tag name.
	Name string

	// Hash is the commit the tag points to.
	Hash string

	// Created is true when this invocation created the tag, false when
	// a pre-existing local tag of the same name was reused.
	Created bool
}

// TagExists reports whether a local tag with the given name exists.
func (r *Repo) TagExists(ctx context.Context, name string) (bool, error) {
	if name == "" {
		return false, WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, WrapError(err, "failed to look up tag reference")
}

// EnsureTag creates a lightweight tag at HEAD, or reuses an existing
// local tag of the same name. Reuse is deliberate: it makes re-running
// the pipeline with an unchanged name safe. An existing tag is never
// recreated or overwritten, and no conflict detection against a
// divergent remote tag is attempted.
//
// Two concurrent invocations can both observe "not exists" and both
// attempt creation; callers needing concurrency safety must serialize
// invocations externally.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) EnsureTag(ctx context.Context, name string) (TagRef, error) {
	if name == "" {
		return TagRef{}, WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	tagRefName := plumbing.NewTagReferenceName(name)
	if existing, err := r.repo.Reference(tagRefName, true); err == nil {
		return TagRef{Name: name, Hash: existing.Hash().String(), Created: false}, nil
	}

	head, err := r.repo.Head()
	if err != nil {
		return TagRef{}, WrapError(ErrResolveFailed, "failed to resolve HEAD for tag target")
	}

	tagRef := plumbing.NewHashReference(tagRefName, head.Hash())
	if err := r.repo.Storer.SetReference(tagRef); err != nil {
		return TagRef{}, WrapError(err, "failed to create tag")
	}

	return TagRef{Name: name, Hash: head.Hash().String(), Created: true}, nil
}
