package git

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// PushRelease publishes the current branch and the named tag to the
// configured remote in a single push. Returns ErrAlreadyUpToDate when
// both refs are already present remotely; callers treat that as
// success (pushing an identical tag twice is harmless).
//
// ErrPushRejected surfaces a non-fast-forward rejection, which
// indicates divergent local/remote state and must abort the pipeline
// rather than be silently resolved.
//
// Context timeout/cancellation is honored during the push operation.
func (r *Repo) PushRelease(ctx context.Context, tagName string) error {
	if tagName == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	branch, err := r.CurrentBranch()
	if err != nil {
		return WrapError(err, "failed to determine branch to push")
	}

	refSpecs := []config.RefSpec{
		config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)),
		config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", tagName, tagName)),
	}
	return r.push(ctx, refSpecs)
}

// push performs the underlying push with authentication resolution and
// error classification shared by all push operations.
func (r *Repo) push(ctx context.Context, refSpecs []config.RefSpec) error {
	pushOpts := &gogit.PushOptions{
		RemoteName: r.options.Remote,
		RefSpecs:   refSpecs,
	}

	if r.options.Auth != nil {
		remoteConfig, err := r.repo.Remote(r.options.Remote)
		if err != nil {
			return WrapError(ErrResolveFailed, "failed to get remote configuration")
		}
		authMethod, authErr := r.options.Auth.Method(remoteConfig.Config().URLs[0])
		if authErr != nil {
			return WrapError(ErrAuthFailed, "failed to get authentication method")
		}
		pushOpts.Auth = authMethod
	}

	err := r.repo.PushContext(ctx, pushOpts)
	if err != nil {
		switch {
		case errors.Is(err, gogit.NoErrAlreadyUpToDate):
			return ErrAlreadyUpToDate
		case errors.Is(err, gogit.ErrNonFastForwardUpdate):
			return WrapError(ErrPushRejected, "remote rejected non-fast-forward update")
		case errors.Is(err, gogit.ErrRemoteNotFound):
			return WrapError(ErrResolveFailed, "remote not found")
		case errors.Is(err, transport.ErrAuthenticationRequired):
			return WrapError(ErrAuthFailed, "remote requires authentication")
		case errors.Is(err, transport.ErrAuthorizationFailed):
			return WrapError(ErrAuthFailed, "remote rejected credentials")
		}
		return WrapError(err, "failed to push to remote")
	}

	return nil
}
