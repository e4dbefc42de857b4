package main

import (
	"fmt"
	"io"
	"os"

	"github.com/JaimeStill/crudify/internal/api"
	"github.com/JaimeStill/crudify/internal/infrastructure"
	"github.com/JaimeStill/crudify/pkg/logging"
	"github.com/JaimeStill/crudify/pkg/openapi"
	"github.com/JaimeStill/crudify/pkg/routes"
	"github.com/spf13/cobra"
)

var (
	specFormat string
	specOutput string
)

var openapiCmd = &cobra.Command{
	Use:   "openapi",
	Short: "Write the generated OpenAPI document",
	Long: `Build every configured resource without starting the server and write
the OpenAPI document. The database is never contacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// stdout carries the document
		cfg.Logging.Output = logging.OutputStderr

		infra, err := infrastructure.New(cfg)
		if err != nil {
			return err
		}
		defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

		r := routes.New(infra.Logger)
		registerInfraRoutes(r, infra)

		module, err := api.NewModule(cfg, api.NewRuntime(cfg, infra), r)
		if err != nil {
			return err
		}

		if specOutput != "" && specFormat == "json" {
			return openapi.WriteJSON(module.Spec, specOutput)
		}

		var w io.Writer = cmd.OutOrStdout()
		if specOutput != "" {
			f, err := os.Create(specOutput)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}

		return writeSpec(w, module.Spec, specFormat)
	},
}

func init() {
	openapiCmd.Flags().StringVarP(&specFormat, "format", "f", "json", "output format (json or yaml)")
	openapiCmd.Flags().StringVarP(&specOutput, "output", "o", "", "output file (default stdout)")
}

func writeSpec(w io.Writer, spec *openapi.Spec, format string) error {
	switch format {
	case "yaml", "yml":
		return openapi.EncodeYAML(spec, w)
	case "json":
		data, err := openapi.MarshalJSON(spec)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}
