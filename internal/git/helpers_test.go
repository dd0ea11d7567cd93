package git

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo is a helper struct that contains a test repository and its
// filesystem.
type testRepo struct {
	repo *Repo
	fs   billy.Filesystem
	ctx  context.Context
}

// setupTestRepo creates a new test repository on an in-memory
// filesystem.
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := memfs.New()

	repo, err := Init(ctx, &Options{FS: memFS})
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo, "repository should not be nil")

	return &testRepo{repo: repo, fs: memFS, ctx: ctx}
}

// setupTestRepoWithCommit creates a test repository with an initial
// commit so HEAD is resolvable.
func setupTestRepoWithCommit(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t)
	tr.writeFile(t, "test.txt", "initial content")
	tr.stage(t, "test.txt")
	tr.commit(t, "initial commit")
	return tr
}

// writeFile writes content to a path in the test filesystem.
func (tr *testRepo) writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := util.WriteFile(tr.fs, path, []byte(content), 0o644)
	require.NoError(t, err, "failed to write %s", path)
}

// stage adds a path to the index.
func (tr *testRepo) stage(t *testing.T, path string) {
	t.Helper()
	_, err := tr.repo.worktree.Add(path)
	require.NoError(t, err, "failed to stage %s", path)
}

// commit creates a commit from the current index.
func (tr *testRepo) commit(t *testing.T, msg string) string {
	t.Helper()
	hash, err := tr.repo.worktree.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to commit")
	return hash.String()
}
