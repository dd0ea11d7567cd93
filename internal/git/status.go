package git

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
)

// VerifyClean inspects the working tree and the staging area and
// returns an error naming which set is dirty. It is strictly
// read-only: it never commits, stashes, or otherwise mutates
// repository state.
//
// Staged changes are reported before unstaged ones when both are
// present. Untracked files do not fail the check; the snapshot
// captures the working directory as-is, untracked files included.
//
// Context timeout/cancellation is honored during the operation.
func (r *Repo) VerifyClean(ctx context.Context) error {
	status, err := r.worktree.Status()
	if err != nil {
		return WrapError(err, "failed to get worktree status")
	}

	var staged, unstaged int
	for _, fileStatus := range status {
		if fileStatus.Staging != gogit.Unmodified && fileStatus.Staging != gogit.Untracked {
			staged++
		}
		if fileStatus.Worktree != gogit.Unmodified && fileStatus.Worktree != gogit.Untracked {
			unstaged++
		}
	}

	if staged > 0 {
		return WrapErrorf(ErrDirtyIndex, "%d file(s) staged for commit", staged)
	}
	if unstaged > 0 {
		return WrapErrorf(ErrDirtyWorktree, "%d file(s) modified", unstaged)
	}
	return nil
}
