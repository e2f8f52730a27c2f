// Package commands implements CLI commands.
package commands

import (
	"log/slog"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/config"
	"github.com/satishbabariya/rowmap/internal/debug"
	"github.com/satishbabariya/rowmap/internal/version"
)

// App is the state shared by every command.
type App struct {
	Config *config.Config
	Prompt Prompter

	schemaFlag string
	debugFlag  bool
}

// NewApp returns an App prompting on the terminal.
func NewApp() *App {
	return &App{Config: config.Default(), Prompt: surveyPrompter{}}
}

// Fs is the filesystem schema and config files are read from.
func (a *App) Fs() afero.Fs {
	return config.AppFs
}

// SchemaPath picks the schema from the first argument, the --schema flag
// or the configuration, in that order.
func (a *App) SchemaPath(args []string) string {
	switch {
	case len(args) > 0 && args[0] != "":
		return args[0]
	case a.schemaFlag != "":
		return a.schemaFlag
	default:
		return a.Config.SchemaPath
	}
}

// NewRootCommand creates the rowmap command tree.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "rowmap",
		Short: "Map SQL result sets onto entities, values and constructed objects",
		Long: `rowmap materializes the rows of native SQL queries through declared
result-set mappings: entities with shared identity, scalar columns and
constructor results.`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("debug") {
				cfg.Debug = app.debugFlag
			}
			app.Config = cfg
			return debug.Setup(debug.Options{
				Enabled: cfg.Debug,
				Level:   slog.LevelDebug,
				Format:  debug.Format(cfg.LogFormat),
			})
		},
	}

	root.PersistentFlags().StringVarP(&app.schemaFlag, "schema", "s", "", "Path to schema file")
	root.PersistentFlags().BoolVar(&app.debugFlag, "debug", false, "Enable debug logging")

	root.AddCommand(NewValidateCommand(app))
	root.AddCommand(NewDescribeCommand(app))
	root.AddCommand(NewQueryCommand(app))
	root.AddCommand(NewWatchCommand(app))
	root.AddCommand(NewInitCommand(app))
	root.AddCommand(NewVersionCommand())
	return root
}

// Prompter asks the user questions.
type Prompter interface {
	Ask(qs []*survey.Question, response any) error
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Ask(qs []*survey.Question, response any) error {
	return survey.Ask(qs, response)
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	ok := def
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &ok)
	return ok, err
}
