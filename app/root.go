// Package app implements the main application commands.
package app

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "workflow-admin",
	Short: "workflow-admin is a web console for a role based workflow API",
	Long: `workflow-admin is a web console for a role based workflow API
that lets administrators, managers and staff manage workflows and user accounts.`,
	Args: cobra.OnlyValidArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// a missing .env file is not an error; the environment may be set otherwise
		_ = godotenv.Load()
	},
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
