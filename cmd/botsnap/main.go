// botsnap creates auditable release snapshots of the trading bot
// codebase: clean-tree check, release tag, portable archive, optional
// S3 replication.
package main

import "github.com/wansookim73-dot/botsnap/internal/cli"

func main() {
	cli.Execute()
}
