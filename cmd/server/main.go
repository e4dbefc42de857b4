// Command server runs the generated REST API for the configured document models.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "crudify",
	Short: "Generated REST resources over document models",
	Long: `Crudify serves list, find, create, update and delete routes for every
model declared in the configuration file, and publishes an OpenAPI document
describing them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default ./config.toml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
