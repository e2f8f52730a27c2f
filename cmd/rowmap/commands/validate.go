package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/core/mapping/split"
	"github.com/satishbabariya/rowmap/internal/core/schema"
	"github.com/satishbabariya/rowmap/internal/ui"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [schema-path]",
		Short: "Validate a mapping schema file",
		Long: `Validate a mapping schema file for syntax and semantic errors.

Every model and mapping is checked and all problems are reported together.
A valid schema prints a summary of its mappings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.SchemaPath(args)
			ui.PrintHeader("rowmap", "Validate Schema")

			s, err := loadSchema(app, path)
			if err != nil {
				return err
			}
			ui.PrintSuccess("Schema is valid: %s", path)
			return printSummary(s)
		},
	}
}

// loadSchema loads path and prints positioned diagnostics when it is invalid.
func loadSchema(app *App, path string) (*schema.Schema, error) {
	if ok, _ := afero.Exists(app.Fs(), path); !ok {
		return nil, fmt.Errorf("schema file not found: %s", path)
	}
	s, err := schema.Load(app.Fs(), path)
	if err == nil {
		return s, nil
	}
	var serr *schema.Error
	if !errors.As(err, &serr) {
		return nil, err
	}
	source, _ := afero.ReadFile(app.Fs(), path)
	fmt.Fprintln(ui.Err, schema.Pretty(err, string(source)))
	return nil, fmt.Errorf("schema has %d error(s)", len(serr.Diagnostics))
}

func printSummary(s *schema.Schema) error {
	ui.PrintSection("Schema Summary")
	ui.PrintKeyValue("Models", strings.Join(s.Catalog.Names(), ", "))
	ui.PrintKeyValue("Mappings", len(s.Mappings))
	if len(s.Mappings) == 0 {
		return nil
	}

	rows := make([][]string, 0, len(s.Mappings))
	for _, name := range s.Mappings {
		def, err := s.Registry.Lookup(name)
		if err != nil {
			return err
		}
		kinds := make([]string, len(def.Results))
		var required []string
		for i, spec := range def.Results {
			kinds[i] = spec.Kind().String()
			required = append(required, split.ColumnsOf(spec).Required...)
		}
		rows = append(rows, []string{name, strings.Join(kinds, ", "), strings.Join(required, ", ")})
	}
	return ui.PrintTable([]string{"Mapping", "Results", "Required columns"}, rows)
}
