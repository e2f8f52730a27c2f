package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/ui"
	"github.com/satishbabariya/rowmap/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [schema-path]",
		Short: "Revalidate a schema file whenever it changes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.SchemaPath(args)
			w, err := watch.NewWatcher(path, func() error {
				s, err := loadSchema(app, path)
				if err != nil {
					ui.PrintError("%v", err)
					return nil
				}
				ui.PrintSuccess("%s: %d model(s), %d mapping(s)", path, len(s.File.Models()), len(s.Mappings))
				return nil
			})
			if err != nil {
				return err
			}
			w.OnError = func(err error) { ui.PrintError("%v", err) }

			ui.PrintInfo("Watching %s (press Ctrl+C to stop)", w.File())
			if err := w.Start(); err != nil {
				w.Stop()
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()
			return w.Stop()
		},
	}
}
