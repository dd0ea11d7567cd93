// Package housekeep removes stale snapshot archives. It is an
// external collaborator of the snapshot pipeline: order-independent
// file deletion invoked explicitly by the operator, never by the
// pipeline itself.
package housekeep

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"
)

// snapshotNamePattern matches archive names produced by the builder
// and captures the embedded creation timestamp.
var snapshotNamePattern = regexp.MustCompile(`_snapshot_(\d{8}_\d{6})\.tgz$`)

const timestampFormat = "20060102_150405"

// Prune deletes all but the newest keep archives in dir, ordered by
// the timestamp embedded in the file name (falling back to the file
// modification time for names that do not parse). It returns the
// removed file names. A missing directory removes nothing.
func Prune(fsys billy.Filesystem, dir string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("keep must be at least 1, got %d", keep)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		// Nothing to prune if the snapshot directory was never created.
		return nil, nil
	}

	type candidate struct {
		name    string
		created time.Time
	}

	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := snapshotNamePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		created, parseErr := time.Parse(timestampFormat, m[1])
		if parseErr != nil {
			created = entry.ModTime()
		}
		candidates = append(candidates, candidate{name: entry.Name(), created: created})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].created.After(candidates[j].created)
	})

	var removed []string
	for _, c := range candidates[min(keep, len(candidates)):] {
		path := fsys.Join(dir, c.name)
		if err := fsys.Remove(path); err != nil {
			return removed, fmt.Errorf("removing %s: %w", path, err)
		}
		removed = append(removed, c.name)
	}

	return removed, nil
}
