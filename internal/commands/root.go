package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mpyw/transactionexit"
	"github.com/mpyw/transactionexit/internal/logging"
)

// ErrOffensesFound is returned when a check reports diagnostics.
var ErrOffensesFound = errors.New("offenses found")

var (
	verbose bool
	version string
	commit  string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "transactionexit [flags] [paths...]",
	Short: "Detect return, break and throw inside Rails transaction blocks",
	Long: `transactionexit checks Ruby sources for exit statements (return, break and
throw) inside transaction and with_lock blocks. Leaving such a block early
commits the transaction on some Rails versions and silently rolls it back on
others; use raise to roll back or next to commit instead.

Paths default to the current directory. Directories are searched recursively
for .rb, .rake, .ru and .gemspec files.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
	RunE: runCheck,
}

// Execute runs the root command with injected build info.
func Execute(v, c, d string) error {
	version = v
	commit = c
	date = d

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// GetVersion returns the current version.
func GetVersion() string {
	return version
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	rootCmd.PersistentFlags().AddGoFlagSet(&transactionexit.Analyzer.Flags)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}
