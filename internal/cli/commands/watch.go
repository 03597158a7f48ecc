package commands

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/iconsprite/internal/watch"
	"github.com/spf13/cobra"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the sprite whenever icons change",
		Long: `Build once, then watch the input directory and rebuild after each burst of
changes. Adding, editing, renaming and deleting icons all trigger a rebuild.
Build errors are reported and watching continues.`,
		Example: `  # Watch with the default debounce
  iconsprite watch

  # Wait longer for editors that save in several steps
  iconsprite watch --debounce 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	cmd.Flags().Duration("debounce", 0, "Quiet period before rebuilding (default 100ms)")

	return cmd
}

func runWatch(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	collector := cmdCtx.NewCollector(false)

	res, err := collector.Run(cmd.Context())
	if err != nil {
		return err
	}
	reportResult(cmdCtx, res)

	// Rebuilds always render: the up-to-date check cannot see a removed
	// icon. Unchanged outputs are still left alone.
	rebuild := cmdCtx.NewCollector(true)
	w := watch.New(watch.Config{
		Dir:      cmdCtx.Cfg.InputDir,
		Debounce: cmdCtx.Cfg.Watch.Debounce,
		Match:    rebuild.Matches,
		Logger:   cmdCtx.Logger,
	})

	r.Muted(fmt.Sprintf("Watching %s for changes. Press Ctrl+C to stop.", cmdCtx.Rel(cmdCtx.Cfg.InputDir)))

	return w.Run(cmd.Context(), func(ctx context.Context) error {
		res, err := rebuild.Run(ctx)
		if err != nil {
			// Keep watching; the next save may fix it.
			r.Error(err.Error())
			return nil
		}
		reportResult(cmdCtx, res)
		return nil
	})
}
