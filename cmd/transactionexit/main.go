// Command transactionexit is a linter that detects exit statements inside
// Rails transaction blocks.
package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/mpyw/transactionexit/internal/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := commands.Execute(version, commit, date); err != nil {
		if errors.Is(err, commands.ErrOffensesFound) {
			os.Exit(1)
		}
		slog.Warn("Command failed", "error", err)
		os.Exit(2)
	}
}
