// Package archive packages the project directory into a compressed
// snapshot artifact. The builder streams the source tree through
// tar+gzip into the snapshot directory, applying the mandatory
// exclusion set. It operates through the billy filesystem abstraction
// so tests can run fully in memory.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultSnapshotDir is the destination directory for archives,
// relative to the project root.
const DefaultSnapshotDir = "backups"

// timestampFormat gives second granularity. Two runs for the same tag
// within the same second collide; that risk is accepted, not mitigated.
const timestampFormat = "20060102_150405"

// ErrBuildFailed is returned when archive construction fails for any
// reason (tool failure, disk full, permission denied). The wrapped
// error carries the underlying cause.
var ErrBuildFailed = errors.New("archive build failed")

// Snapshot describes one successfully built archive.
type Snapshot struct {
	// Path is the archive location, relative to the builder filesystem
	// root.
	Path string

	// CreatedAt is the timestamp embedded in the archive name.
	CreatedAt time.Time
}

// Builder constructs snapshot archives of a project tree.
type Builder struct {
	fs          billy.Filesystem
	project     string
	snapshotDir string
	exclude     ExclusionSet
}

// NewBuilder returns a builder rooted at the given filesystem.
// project is the identifier used in archive names; snapshotDir is the
// root-relative destination directory (DefaultSnapshotDir when empty);
// extra entries extend the mandatory exclusion set.
func NewBuilder(fsys billy.Filesystem, project, snapshotDir string, extra ...string) *Builder {
	if snapshotDir == "" {
		snapshotDir = DefaultSnapshotDir
	}
	return &Builder{
		fs:          fsys,
		project:     project,
		snapshotDir: snapshotDir,
		exclude:     NewExclusionSet(snapshotDir, extra...),
	}
}

// ArchiveName returns the deterministic archive file name for a tag
// and creation time: <project>_<tag>_snapshot_<timestamp>.tgz.
func (b *Builder) ArchiveName(tagName string, now time.Time) string {
	return fmt.Sprintf("%s_%s_snapshot_%s.tgz", b.project, tagName, now.Format(timestampFormat))
}

// Build packages the project tree into a single compressed archive and
// returns its location. The destination directory is created if
// absent. On failure no file is left at the target path: a partial
// archive is removed so a later integrity check never mistakes it for
// a complete snapshot.
//
// Context cancellation is honored between entries; an interrupt
// mid-entry aborts the build and removes the partial file.
func (b *Builder) Build(ctx context.Context, tagName string, now time.Time) (Snapshot, error) {
	if tagName == "" {
		return Snapshot{}, fmt.Errorf("%w: tag name cannot be empty", ErrBuildFailed)
	}

	if err := b.fs.MkdirAll(b.snapshotDir, 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("%w: creating snapshot directory: %w", ErrBuildFailed, err)
	}

	outPath := b.fs.Join(b.snapshotDir, b.ArchiveName(tagName, now))
	out, err := b.fs.Create(outPath)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: creating %s: %w", ErrBuildFailed, outPath, err)
	}

	if err := b.writeArchive(ctx, out); err != nil {
		out.Close()
		_ = b.fs.Remove(outPath)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrBuildFailed, err)
	}

	if err := out.Close(); err != nil {
		_ = b.fs.Remove(outPath)
		return Snapshot{}, fmt.Errorf("%w: closing %s: %w", ErrBuildFailed, outPath, err)
	}

	return Snapshot{Path: outPath, CreatedAt: now}, nil
}

// writeArchive streams the whole project tree through tar+gzip.
func (b *Builder) writeArchive(ctx context.Context, out io.Writer) error {
	gw := gzip.NewWriter(out)
	tw := tar.NewWriter(gw)

	walkErr := util.Walk(b.fs, ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == "." {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if b.exclude.Excluded(path, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		switch {
		case info.IsDir():
			return b.writeDirEntry(tw, path, info)
		case info.Mode().IsRegular():
			return b.writeFileEntry(tw, path, info)
		case info.Mode()&os.ModeSymlink != 0:
			return b.writeLinkEntry(tw, path, info)
		default:
			// Sockets, devices and other irregular files have no place
			// in a portable archive.
			return nil
		}
	})
	if walkErr != nil {
		return walkErr
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finalizing gzip stream: %w", err)
	}
	return nil
}

func (b *Builder) writeDirEntry(tw *tar.Writer, path string, info os.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("building header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(path) + "/"
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", path, err)
	}
	return nil
}

func (b *Builder) writeFileEntry(tw *tar.Writer, path string, info os.FileInfo) error {
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("building header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", path, err)
	}

	f, err := b.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

func (b *Builder) writeLinkEntry(tw *tar.Writer, path string, info os.FileInfo) error {
	target, err := b.fs.Readlink(path)
	if err != nil {
		return fmt.Errorf("reading symlink %s: %w", path, err)
	}

	hdr, err := tar.FileInfoHeader(info, target)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(path)

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", path, err)
	}
	return nil
}
