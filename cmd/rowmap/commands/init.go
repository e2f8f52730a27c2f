package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/rowmap/internal/config"
	"github.com/satishbabariya/rowmap/internal/ui"
)

const sampleSchema = `requires ">= 0.1.0"

model Order {
  id         BigInt @id @map("OID")
  totalPrice Float  @map("OPRICE")
}

mapping OrderItems {
  entity Order { id = "OID", totalPrice = "OPRICE" }
  column "INAME"
}
`

type initAnswers struct {
	SchemaPath  string `survey:"schema_path"`
	Provider    string `survey:"provider"`
	DatabaseURL string `survey:"database_url"`
	Format      string `survey:"format"`
}

// NewInitCommand creates the init command.
func NewInitCommand(app *App) *cobra.Command {
	var yes, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a .rowmap.yaml config and a sample schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := app.Fs()
			answers := initAnswers{
				SchemaPath:  app.Config.SchemaPath,
				Provider:    app.Config.Provider,
				DatabaseURL: app.Config.DatabaseURL,
				Format:      app.Config.Format,
			}
			if answers.Provider == "" {
				answers.Provider = "sqlite"
			}
			if answers.Format == "" {
				answers.Format = "table"
			}
			if !yes {
				if err := app.Prompt.Ask(initQuestions(answers), &answers); err != nil {
					return err
				}
			}

			const path = config.FileName + ".yaml"
			if exists, _ := afero.Exists(fs, path); exists && !force {
				ok := false
				if !yes {
					var err error
					if ok, err = app.Prompt.Confirm(path+" exists. Overwrite it?", false); err != nil {
						return err
					}
				}
				if !ok {
					ui.PrintWarning("Keeping existing %s", path)
					return nil
				}
			}

			cfg := &config.Config{
				SchemaPath:  answers.SchemaPath,
				Provider:    answers.Provider,
				DatabaseURL: answers.DatabaseURL,
				Format:      answers.Format,
				LogFormat:   app.Config.LogFormat,
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			ui.PrintSuccess("Created %s", path)

			if exists, _ := afero.Exists(fs, cfg.SchemaPath); exists {
				ui.PrintInfo("Schema file already exists: %s", cfg.SchemaPath)
				return nil
			}
			if err := afero.WriteFile(fs, cfg.SchemaPath, []byte(sampleSchema), 0o644); err != nil {
				return fmt.Errorf("failed to create schema file: %w", err)
			}
			ui.PrintSuccess("Created schema file: %s", cfg.SchemaPath)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func initQuestions(defaults initAnswers) []*survey.Question {
	return []*survey.Question{
		{
			Name:     "schema_path",
			Prompt:   &survey.Input{Message: "Schema file:", Default: defaults.SchemaPath},
			Validate: survey.Required,
		},
		{
			Name: "provider",
			Prompt: &survey.Select{
				Message: "Database provider:",
				Options: []string{"sqlite", "postgres", "mysql"},
				Default: defaults.Provider,
			},
		},
		{
			Name:   "database_url",
			Prompt: &survey.Input{Message: "Database url:", Default: defaults.DatabaseURL},
		},
		{
			Name: "format",
			Prompt: &survey.Select{
				Message: "Default output format:",
				Options: []string{"table", "json", "yaml", "dump"},
				Default: defaults.Format,
			},
		},
	}
}
