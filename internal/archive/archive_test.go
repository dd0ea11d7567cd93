package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupProjectFS builds an in-memory project tree resembling the bot
// checkout, live state and all.
func setupProjectFS(t *testing.T) billy.Filesystem {
	t.Helper()

	fsys := memfs.New()
	files := map[string]string{
		"main.py":                 "print('bot')",
		"config.py":               "LEVERAGE = 7",
		"strategy/grid_logic.py":  "pass",
		"data/params.json":        "{}",
		"data/bot_state.json":     `{"position": "live"}`,
		"data/bot.log":            "log line",
		".git/HEAD":               "ref: refs/heads/master",
		"venv/lib/site.py":        "pass",
		"__pycache__/main.pyc":    "\x00",
		"backups/stale_old.tgz":   "old archive",
	}
	for path, content := range files {
		require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return fsys
}

// archiveEntries reads back the archive and returns its entry names.
func archiveEntries(t *testing.T, fsys billy.Filesystem, path string) []string {
	t.Helper()

	f, err := fsys.Open(path)
	require.NoError(t, err)
	defer f.Close()

	gr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer gr.Close()

	tr := tar.NewReader(gr)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
		_, err = io.Copy(io.Discard, tr)
		require.NoError(t, err)
	}
	return names
}

func TestBuild(t *testing.T) {
	fsys := setupProjectFS(t)
	builder := NewBuilder(fsys, "bybit_bot", "")
	now := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)

	snap, err := builder.Build(context.Background(), "v1.0.0", now)
	require.NoError(t, err)
	assert.Equal(t, "backups/bybit_bot_v1.0.0_snapshot_20260829_143005.tgz", snap.Path)
	assert.Equal(t, now, snap.CreatedAt)

	entries := archiveEntries(t, fsys, snap.Path)

	assert.Contains(t, entries, "main.py")
	assert.Contains(t, entries, "config.py")
	assert.Contains(t, entries, "strategy/grid_logic.py")
	assert.Contains(t, entries, "data/params.json")

	for _, entry := range entries {
		assert.NotContains(t, entry, "bot_state.json", "live runtime state must never be archived")
		assert.NotContains(t, entry, ".git/", "version control internals must never be archived")
		assert.NotContains(t, entry, "venv/", "dependency trees must never be archived")
		assert.NotContains(t, entry, "__pycache__")
		assert.NotContains(t, entry, ".log")
		assert.NotContains(t, entry, "backups", "archive must not include the snapshot directory")
	}
}

func TestBuild_DistinctNamesAcrossInvocations(t *testing.T) {
	fsys := setupProjectFS(t)
	builder := NewBuilder(fsys, "bybit_bot", "")

	first, err := builder.Build(context.Background(), "v1.0.0", time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), "v1.0.0", time.Date(2026, 8, 29, 10, 0, 1, 0, time.UTC))
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path, "distinct invocations must produce distinct names")

	// Both archives must exist; re-running never clobbers earlier snapshots.
	_, err = fsys.Stat(first.Path)
	require.NoError(t, err)
	_, err = fsys.Stat(second.Path)
	require.NoError(t, err)
}

func TestBuild_CreatesSnapshotDir(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "main.py", []byte("pass"), 0o644))

	builder := NewBuilder(fsys, "bybit_bot", "archives/releases")
	snap, err := builder.Build(context.Background(), "v2.0.0", time.Now())
	require.NoError(t, err)

	_, err = fsys.Stat(snap.Path)
	require.NoError(t, err)
}

func TestBuild_EmptyTag(t *testing.T) {
	builder := NewBuilder(memfs.New(), "bybit_bot", "")

	_, err := builder.Build(context.Background(), "", time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuildFailed))
}

func TestBuild_NoPartialFileOnFailure(t *testing.T) {
	fsys := setupProjectFS(t)
	builder := NewBuilder(fsys, "bybit_bot", "")
	now := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := builder.Build(ctx, "v1.0.0", now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBuildFailed))

	// The partial file must not survive to masquerade as a snapshot.
	outPath := fsys.Join(DefaultSnapshotDir, builder.ArchiveName("v1.0.0", now))
	_, statErr := fsys.Stat(outPath)
	assert.Error(t, statErr, "failed build must not leave a file at the target path")
}

func TestArchiveName(t *testing.T) {
	builder := NewBuilder(memfs.New(), "bybit_bot", "")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "bybit_bot_v1.2.3_snapshot_20260102_030405.tgz", builder.ArchiveName("v1.2.3", now))
}
