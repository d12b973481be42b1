// formctl administers the records database of the registration form from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/registration-form/internal/app"
	"gitlab.com/dirk.krummacker/registration-form/internal/config"
	"gitlab.com/dirk.krummacker/registration-form/internal/model"
)

var (
	// configFile is the YAML file of the service, shared by all subcommands.
	configFile string
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "formctl",
	Short: "Administer the registration form records",
	Long: `formctl works on the same database and spreadsheet as the registration form service.

Available subcommands:
  init    - Create the records table
  migrate - Execute an SQL file against the database
  export  - Write all records to an Excel file
  wipe    - Delete all records and reset the ids
  mirror  - Append a stored record to the spreadsheet`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}
		var err error
		logger, err = app.NewLogger(os.Getenv("LOG_LEVEL"))
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "the YAML configuration file")
	rootCmd.AddCommand(initCmd, migrateCmd, exportCmd, wipeCmd, mirrorCmd)
}

// loadConfig loads the configuration and checks the parts every subcommand needs.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if _, err := model.ParseVariant(cfg.Form.Variant); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage example on the command line:
// > DB_PATH=data.db go run . export --out=data.xlsx
func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
