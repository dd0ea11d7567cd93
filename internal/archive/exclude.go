package archive

import (
	"path"
	"path/filepath"
	"strings"
)

// Mandatory exclusions. These are always applied and cannot be
// overridden: a snapshot must never contain version-control internals,
// dependency trees, live logs, the live runtime-state file, or the
// snapshot directory itself.
var (
	excludedDirNames = []string{
		".git",
		"venv",
		".venv",
		"node_modules",
		"__pycache__",
	}

	excludedGlobs = []string{
		"*.log",
	}

	excludedFiles = []string{
		"data/bot_state.json",
	}
)

// ExclusionSet decides which entries are omitted from a snapshot.
// The zero value is not usable; construct with NewExclusionSet.
type ExclusionSet struct {
	dirNames    []string
	globs       []string
	files       []string
	snapshotDir string
	extra       []string
}

// NewExclusionSet builds the exclusion rules for one snapshot run.
// snapshotDir is the root-relative destination directory, excluded to
// avoid the archive including itself. extra entries are additional
// root-relative paths supplied by configuration; they extend, never
// replace, the mandatory set.
func NewExclusionSet(snapshotDir string, extra ...string) ExclusionSet {
	return ExclusionSet{
		dirNames:    excludedDirNames,
		globs:       excludedGlobs,
		files:       excludedFiles,
		snapshotDir: normalize(snapshotDir),
		extra:       normalizeAll(extra),
	}
}

// Excluded reports whether the entry at the given root-relative path
// must be omitted. For directories a true result prunes the whole
// subtree.
func (e ExclusionSet) Excluded(relPath string, isDir bool) bool {
	p := normalize(relPath)
	if p == "" {
		return false
	}

	if e.snapshotDir != "" && (p == e.snapshotDir || strings.HasPrefix(p, e.snapshotDir+"/")) {
		return true
	}

	base := path.Base(p)
	if isDir {
		for _, name := range e.dirNames {
			if base == name {
				return true
			}
		}
	}

	for _, glob := range e.globs {
		if ok, _ := path.Match(glob, base); ok {
			return true
		}
	}

	for _, f := range e.files {
		if p == f {
			return true
		}
	}

	for _, x := range e.extra {
		if p == x || strings.HasPrefix(p, x+"/") {
			return true
		}
	}

	return false
}

func normalize(p string) string {
	n := strings.Trim(filepath.ToSlash(filepath.Clean(p)), "/")
	if n == "." {
		return ""
	}
	return n
}

func normalizeAll(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if n := normalize(p); n != "" && n != "." {
			out = append(out, n)
		}
	}
	return out
}
