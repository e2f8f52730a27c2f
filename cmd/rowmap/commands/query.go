package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/adapters"
	"github.com/satishbabariya/rowmap/internal/adapters/database"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/output"
	"github.com/satishbabariya/rowmap/internal/ui"
	"github.com/satishbabariya/rowmap/pkg/client"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(app *App) *cobra.Command {
	var (
		query    string
		format   string
		url      string
		provider string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query <mapping>",
		Short: "Run a SQL query and print its rows mapped under a mapping",
		Long: `Run a SQL query and print its rows mapped under a mapping.

Rows that fail to map are reported and skipped; the command then exits
with an error after printing the rows that did map.`,
		Example: `  rowmap query OrderItems --sql "SELECT o.oid, o.oprice, i.iname FROM orders o JOIN items i USING (oid)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = app.Config.Format
			}
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}
			if url == "" {
				url = app.Config.DatabaseURL
			}
			if provider == "" {
				provider = app.Config.Provider
			}
			if url == "" {
				return fmt.Errorf("no database url: pass --url or set ROWMAP_DATABASE_URL")
			}

			s, err := loadSchema(app, app.SchemaPath(nil))
			if err != nil {
				return err
			}
			def, err := s.Registry.Lookup(args[0])
			if err != nil {
				return err
			}

			adapter, err := adapters.New(database.Config{Provider: provider, URL: url})
			if err != nil {
				return err
			}
			c := client.New(adapter,
				client.WithSchema(s),
				client.WithQueryTimeout(timeout),
				client.WithLogQueries(app.Config.Debug),
			)
			ctx := cmd.Context()
			if err := c.Connect(ctx); err != nil {
				return err
			}
			defer c.Disconnect(ctx)

			session := c.NewSession()
			defer session.Close()

			var tuples []domain.ResultTuple
			rows, failed := 0, 0
			for tuple, err := range session.QueryMapped(ctx, def.Name, query) {
				var merr *domain.MappingError
				switch {
				case err == nil:
					tuples = append(tuples, tuple)
				case errors.As(err, &merr):
					ui.PrintWarning("row %d: %v", rows+1, err)
					failed++
				default:
					return err
				}
				rows++
			}

			if err := output.Render(ui.Out, f, def, tuples); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d row(s) failed to map", failed, rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&query, "sql", "", "SQL query to run")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, yaml or dump")
	cmd.Flags().StringVar(&url, "url", "", "Database connection url")
	cmd.Flags().StringVar(&provider, "provider", "", "Database provider: sqlite, postgres or mysql")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Query timeout")
	_ = cmd.MarkFlagRequired("sql")
	return cmd
}
