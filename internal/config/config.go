// Package config resolves all runtime configuration for botsnap once
// at process entry. The resulting Config is passed by reference into
// each pipeline stage; no stage reads environment variables or any
// other ambient process state directly.
package config

import (
	"errors"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// ProjectName identifies the codebase in archive names and the default
// remote key prefix.
const ProjectName = "bybit_bot"

// Config holds all runtime configuration for one botsnap invocation.
// Values come from BACKUP_* environment variables, an optional
// botsnap.yaml, and CLI flag overrides applied by the command layer.
type Config struct {
	// RepoRoot is the project directory to snapshot. Defaults to the
	// working directory; set by the command layer.
	RepoRoot string `mapstructure:"-"`

	// SnapshotDir is the archive destination, relative to RepoRoot.
	SnapshotDir string `mapstructure:"snapshot_dir"`

	// Remote is the git remote releases are published to.
	Remote string `mapstructure:"remote"`

	// Bucket enables remote replication when non-empty
	// (BACKUP_S3_BUCKET). Empty means skip, not error.
	Bucket string `mapstructure:"s3_bucket"`

	// Prefix is the remote key prefix (BACKUP_S3_PREFIX).
	Prefix string `mapstructure:"s3_prefix"`

	// Region optionally overrides the S3 client region.
	Region string `mapstructure:"s3_region"`

	// GitToken optionally enables HTTPS token auth for pushes.
	GitToken string `mapstructure:"git_token"`

	// KeepArchives is how many archives `botsnap prune` retains.
	KeepArchives int `mapstructure:"keep_archives"`
}

// UploadEnabled reports whether remote replication is configured.
func (c *Config) UploadEnabled() bool {
	return c.Bucket != ""
}

// Load resolves configuration from the environment and an optional
// botsnap.yaml found in the working directory or the XDG config home.
// Environment variables win over the config file.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("snapshot_dir", "backups")
	v.SetDefault("remote", "origin")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("s3_prefix", strings.ReplaceAll(ProjectName, "_", "-"))
	v.SetDefault("s3_region", "")
	v.SetDefault("git_token", "")
	v.SetDefault("keep_archives", 5)

	v.SetEnvPrefix("BACKUP")
	v.AutomaticEnv()

	v.SetConfigName("botsnap")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(xdg.ConfigHome)

	// A missing config file is fine; env and defaults cover everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
