package cli

import (
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/wansookim73-dot/botsnap/internal/config"
	"github.com/wansookim73-dot/botsnap/internal/housekeep"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest snapshot archives",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

func init() {
	pruneCmd.Flags().Int("keep", 0, "number of archives to retain (default from config)")
	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	applyFlagOverrides(cmd, &cfg)

	keep := cfg.KeepArchives
	if v, _ := cmd.Flags().GetInt("keep"); v > 0 {
		keep = v
	}

	removed, err := housekeep.Prune(osfs.New(cfg.RepoRoot), cfg.SnapshotDir, keep)
	if err != nil {
		return err
	}

	if len(removed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "nothing to prune")
		return nil
	}
	for _, name := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", name)
	}
	return nil
}
