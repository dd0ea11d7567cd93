package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExclusionSet(t *testing.T) {
	excl := NewExclusionSet("backups", "secrets.env")

	tests := []struct {
		name     string
		path     string
		isDir    bool
		excluded bool
	}{
		{"project root", ".", true, false},
		{"regular source file", "main.py", false, false},
		{"nested source file", "strategy/grid_logic.py", false, false},
		{"version control internals", ".git", true, true},
		{"virtualenv", "venv", true, true},
		{"dot virtualenv", ".venv", true, true},
		{"nested pycache", "strategy/__pycache__", true, true},
		{"node modules", "node_modules", true, true},
		{"top level log", "bot.log", false, true},
		{"nested log", "data/bot.log", false, true},
		{"live runtime state file", "data/bot_state.json", false, true},
		{"other json in data", "data/params.json", false, false},
		{"snapshot directory itself", "backups", true, true},
		{"file inside snapshot directory", "backups/old_snapshot.tgz", false, true},
		{"extra configured path", "secrets.env", false, true},
		{"directory named like a log", "catalog", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.excluded, excl.Excluded(tt.path, tt.isDir))
		})
	}
}

func TestExclusionSet_SnapshotDirNormalization(t *testing.T) {
	excl := NewExclusionSet("./backups/")
	assert.True(t, excl.Excluded("backups/x.tgz", false))
	assert.True(t, excl.Excluded("backups", true))
	assert.False(t, excl.Excluded("backups2/x.tgz", false))
}
