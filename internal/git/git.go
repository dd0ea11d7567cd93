// Package git provides the version-control capability for the snapshot
// pipeline: working-tree cleanliness checks, release tag lifecycle, and
// publishing to the configured remote. It is a thin, task-oriented
// wrapper over go-git that operates through the billy filesystem
// abstraction so tests can run against in-memory repositories.
package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const (
	// DefaultRemoteName is the remote used for publishing releases.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery and remote access.
type Options struct {
	// FS is the REQUIRED filesystem rooted at the project directory.
	// All repository state lives within this filesystem.
	FS billy.Filesystem

	// Remote is the remote name used for push operations.
	// Defaults to DefaultRemoteName.
	Remote string

	// Auth is an optional provider that resolves per-URL AuthMethod.
	// If nil, no authentication will be available.
	Auth AuthProvider
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}
	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.Remote == "" {
		o.Remote = DefaultRemoteName
	}
}

// Repo is a handle to an opened repository. It is not safe for
// concurrent use; the snapshot pipeline is strictly sequential.
type Repo struct {
	repo     *gogit.Repository
	worktree *gogit.Worktree
	options  Options
}

// Open opens the existing git repository at the root of the configured
// filesystem. The repository must be non-bare: the snapshot pipeline
// always operates on a checked-out working tree.
//
// Context timeout/cancellation is honored during repository validation.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	dotGitFS, err := opts.FS.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, WrapError(ErrNotARepository, "failed to access .git directory")
	}
	storage := filesystem.NewStorage(dotGitFS, cache.NewObjectLRU(cache.DefaultMaxSize))

	repo, err := gogit.Open(storage, opts.FS)
	if err != nil {
		return nil, WrapError(ErrNotARepository, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{
		repo:     repo,
		worktree: worktree,
		options:  *opts,
	}, nil
}

// Init creates a new non-bare repository at the root of the configured
// filesystem. It exists primarily for test fixtures; the snapshot
// pipeline itself only ever opens repositories.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	dotGitFS, err := opts.FS.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, WrapError(err, "failed to create .git directory")
	}
	storage := filesystem.NewStorage(dotGitFS, cache.NewObjectLRU(cache.DefaultMaxSize))

	repo, err := gogit.Init(storage, opts.FS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{
		repo:     repo,
		worktree: worktree,
		options:  *opts,
	}, nil
}

// Head returns the commit hash the repository HEAD currently points to.
func (r *Repo) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}
	return ref.Hash().String(), nil
}

// CurrentBranch returns the short name of the currently checked-out
// branch. Returns ErrResolveFailed when HEAD is detached.
func (r *Repo) CurrentBranch() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}
	if !ref.Name().IsBranch() {
		return "", WrapError(ErrResolveFailed, "HEAD is not on a branch")
	}
	return ref.Name().Short(), nil
}
