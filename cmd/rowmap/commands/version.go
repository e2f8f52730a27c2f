package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/ui"
	"github.com/satishbabariya/rowmap/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display version information for the rowmap CLI",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if short {
				fmt.Fprintln(ui.Out, info.Version)
				return
			}
			fmt.Fprintln(ui.Out, info.FullString())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
