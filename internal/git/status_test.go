package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestVerifyClean tests the working-tree precondition check.
func TestVerifyClean(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) *testRepo
		validate func(t *testing.T, err error)
	}{
		{
			name:  "clean tree after commit",
			setup: setupTestRepoWithCommit,
			validate: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "unstaged modification fails with dirty worktree",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				tr.writeFile(t, "test.txt", "modified content")
				return tr
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDirtyWorktree), "should report dirty working tree")
			},
		},
		{
			name: "staged modification fails with dirty index",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				tr.writeFile(t, "test.txt", "modified content")
				tr.stage(t, "test.txt")
				return tr
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDirtyIndex), "should report dirty index")
			},
		},
		{
			name: "staged reported before unstaged when both dirty",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				tr.writeFile(t, "staged.txt", "staged")
				tr.stage(t, "staged.txt")
				tr.writeFile(t, "test.txt", "modified content")
				return tr
			},
			validate: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrDirtyIndex))
			},
		},
		{
			name: "untracked files do not fail validation",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				tr.writeFile(t, "scratch.txt", "untracked")
				return tr
			},
			validate: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.setup(t)
			err := tr.repo.VerifyClean(tr.ctx)
			tt.validate(t, err)
		})
	}
}
