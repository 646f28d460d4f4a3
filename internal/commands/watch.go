package commands

import (
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpyw/transactionexit/internal/watch"
)

var watchFlags struct {
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [paths...]",
	Short: "Re-run the check whenever Ruby sources change",
	Long: `Runs the check once, then again every time a Ruby file or the config
file below the given paths changes. Stops on interrupt.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-running after a change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	if checkFlags.writeBaseline {
		return errors.New("--write-baseline cannot be used with watch")
	}

	ctx := cmd.Context()
	paths := pathsOrDefault(args)

	w, err := watch.New(paths, watchFlags.debounce)
	if err != nil {
		return err
	}

	// Each run truncates --output so the file holds the latest report.
	run := func() {
		out, closeOut, err := openOutput(cmd.OutOrStdout())
		if err != nil {
			slog.Warn("Check failed", "error", err)
			return
		}
		defer closeOut()

		if err := check(ctx, out, paths); err != nil && !errors.Is(err, ErrOffensesFound) {
			slog.Warn("Check failed", "error", err)
		}
	}

	run()
	return w.Run(ctx, run)
}
