package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/split"
	"github.com/satishbabariya/rowmap/internal/core/schema/parser"
	"github.com/satishbabariya/rowmap/internal/ui"
)

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(app *App) *cobra.Command {
	var raw, grammar bool
	cmd := &cobra.Command{
		Use:   "describe <mapping>",
		Short: "Describe a mapping and the columns it reads",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if grammar {
				fmt.Fprintln(cmd.OutOrStdout(), parser.Grammar())
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("describe requires a mapping name")
			}
			s, err := loadSchema(app, app.SchemaPath(nil))
			if err != nil {
				return err
			}
			def, err := s.Registry.Lookup(args[0])
			if err != nil {
				return err
			}
			md := Describe(def)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			return ui.PrintMarkdown(md)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without rendering it")
	cmd.Flags().BoolVar(&grammar, "grammar", false, "Print the EBNF of the schema language")
	return cmd
}

// Describe renders def as markdown.
func Describe(def *domain.MappingDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Mapping `%s`\n\n", def.Name)
	fmt.Fprintf(&b, "%d result(s) per row.\n\n", len(def.Results))
	b.WriteString("| # | Result | Required columns | Optional columns |\n")
	b.WriteString("|---|--------|------------------|------------------|\n")
	for i, spec := range def.Results {
		cols := split.ColumnsOf(spec)
		fmt.Fprintf(&b, "| %d | `%s` | %s | %s |\n", i+1, spec, columnList(cols.Required), columnList(cols.Optional))
	}

	for i, spec := range def.Results {
		switch s := spec.(type) {
		case domain.EntityResult:
			fmt.Fprintf(&b, "\n## %d. Entity `%s`\n\n", i+1, s.Type.Name)
			fields := s.Type.Fields()
			for j := range fields {
				f := &fields[j]
				col, _ := s.ColumnFor(f)
				key := ""
				if f.IsID {
					key = " (key)"
				}
				fmt.Fprintf(&b, "* `%s` %s from `%s`%s\n", f.Name, f.Type, col, key)
			}
			if s.Discriminator != "" {
				fmt.Fprintf(&b, "* subtype selected by `%s`\n", s.Discriminator)
			}
		case domain.ConstructorResult:
			fmt.Fprintf(&b, "\n## %d. Constructor `%s`\n\n", i+1, s.Type.Name)
			if s.Constructor != nil {
				fmt.Fprintf(&b, "* calls `%s`\n", s.Constructor)
			}
			fmt.Fprintf(&b, "* results are %s\n", s.Status())
		}
	}
	return b.String()
}

func columnList(cols []string) string {
	if len(cols) == 0 {
		return "-"
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = "`" + c + "`"
	}
	return strings.Join(quoted, ", ")
}
