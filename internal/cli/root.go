// Package cli wires the snapshot pipeline behind the botsnap command
// tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "botsnap <tag>",
	Short: "Create an auditable release snapshot of the trading bot codebase",
	Long: "botsnap verifies the repository is clean, records (or reuses) the " +
		"release tag, publishes it to the remote, packages the project into a " +
		"timestamped .tgz excluding live runtime state, and optionally " +
		"replicates the archive to S3 (BACKUP_S3_BUCKET).",
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

// Execute runs the command tree. On any fatal error the process exits
// with a single non-zero code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().String("repo", ".", "project root to snapshot")
	rootCmd.PersistentFlags().String("snapshot-dir", "", "archive destination, relative to the project root")
	rootCmd.Flags().String("remote", "", "git remote to publish the release to")
}
