// Package main is the entry point for the rowmap CLI.
package main

import (
	"context"
	"os"

	"github.com/satishbabariya/rowmap/cmd/rowmap/commands"
	"github.com/satishbabariya/rowmap/internal/ui"
)

func main() {
	if err := commands.NewRootCommand(commands.NewApp()).ExecuteContext(context.Background()); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
