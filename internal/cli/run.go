package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/wansookim73-dot/botsnap/internal/archive"
	"github.com/wansookim73-dot/botsnap/internal/config"
	"github.com/wansookim73-dot/botsnap/internal/git"
	"github.com/wansookim73-dot/botsnap/internal/release"
	"github.com/wansookim73-dot/botsnap/internal/storage"
)

func runSnapshot(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyFlagOverrides(cmd, &cfg)

	ctx := cmd.Context()
	fsys := osfs.New(cfg.RepoRoot)

	var auth git.AuthProvider
	if cfg.GitToken != "" {
		auth = git.NewTokenAuthProvider(cfg.GitToken)
	}

	repo, err := git.Open(ctx, &git.Options{
		FS:     fsys,
		Remote: cfg.Remote,
		Auth:   auth,
	})
	if err != nil {
		return fmt.Errorf("opening repository at %s: %w", cfg.RepoRoot, err)
	}

	pipe := &release.Pipeline{
		Validator: repo,
		Tagger:    releaseTagger{repo: repo},
		Archiver: releaseArchiver{
			builder: archive.NewBuilder(fsys, config.ProjectName, cfg.SnapshotDir),
		},
		Warn: cmd.ErrOrStderr(),
	}
	if cfg.UploadEnabled() {
		pipe.Uploader = lazyUploader{bucket: cfg.Bucket, prefix: cfg.Prefix, region: cfg.Region}
	}

	summary, runErr := pipe.Run(ctx, args[0])
	if summary != nil {
		fmt.Fprint(cmd.OutOrStdout(), summary.Report())
	}
	return runErr
}

// applyFlagOverrides applies CLI flag values to the loaded config.
// Flags win over environment and config file.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	cfg.RepoRoot = "."
	if v, _ := cmd.Flags().GetString("repo"); v != "" {
		cfg.RepoRoot = v
	}
	if v, _ := cmd.Flags().GetString("snapshot-dir"); v != "" {
		cfg.SnapshotDir = v
	}
	if f := cmd.Flags().Lookup("remote"); f != nil {
		if v, _ := cmd.Flags().GetString("remote"); v != "" {
			cfg.Remote = v
		}
	}
}

// releaseTagger adapts *git.Repo to the pipeline's Tagger interface.
type releaseTagger struct {
	repo *git.Repo
}

func (t releaseTagger) EnsureTag(ctx context.Context, name string) (release.TagResult, error) {
	ref, err := t.repo.EnsureTag(ctx, name)
	if err != nil {
		return release.TagResult{}, err
	}
	return release.TagResult{Name: ref.Name, Hash: ref.Hash, Reused: !ref.Created}, nil
}

func (t releaseTagger) PushRelease(ctx context.Context, name string) error {
	err := t.repo.PushRelease(ctx, name)
	if errors.Is(err, git.ErrAlreadyUpToDate) {
		// Re-pushing an identical release is harmless.
		return nil
	}
	return err
}

// releaseArchiver adapts *archive.Builder to the pipeline's Archiver
// interface.
type releaseArchiver struct {
	builder *archive.Builder
}

func (a releaseArchiver) Build(ctx context.Context, tagName string, now time.Time) (string, error) {
	snap, err := a.builder.Build(ctx, tagName, now)
	if err != nil {
		return "", err
	}
	return snap.Path, nil
}

// lazyUploader defers S3 client construction to the upload stage so
// that a configured-but-broken storage capability fails after the
// archive exists, leaving the local artifact as the durable fallback.
type lazyUploader struct {
	bucket, prefix, region string
}

func (u lazyUploader) Upload(ctx context.Context, archivePath, tagName string) (string, error) {
	client, err := storage.New(ctx, u.bucket, u.prefix, u.region)
	if err != nil {
		return "", err
	}
	return client.Upload(ctx, archivePath, tagName)
}
