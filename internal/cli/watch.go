package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnituy18/elysiumx/internal/errors"
	"github.com/gnituy18/elysiumx/internal/logging"
	"github.com/gnituy18/elysiumx/internal/site"
)

func newWatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [input output]",
		Short: "Rebuild whenever an entry file or an imported component changes",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.Newf(errors.ErrInvalidInput, "watch takes no arguments or an input and an output, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := &site.Watcher{
				Debounce: a.cfg.Watch.Debounce,
				Logger:   logging.GetLogger("watch"),
			}

			build := func() ([]string, error) { return a.buildPages(cmd) }
			if len(args) == 2 {
				build = func() ([]string, error) { return a.buildFile(cmd, args[0], args[1]) }
			} else {
				w.Roots = []string{a.cfg.Build.Pages}
			}
			return w.Run(ctx, build)
		},
	}
	addCompileFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "delay before rebuilding after a change (default from config)")
	return cmd
}
