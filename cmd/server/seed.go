package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/crudify/internal/api"
	"github.com/JaimeStill/crudify/internal/infrastructure"
	"github.com/JaimeStill/crudify/pkg/logging"
	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var seedCmd = &cobra.Command{
	Use:   "seed <model> <file>",
	Short: "Insert documents from a JSON or YAML file",
	Long: `Insert the documents in file into the named model through the configured
store. The file holds one object or an array of objects. Every document is
validated before any is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Logging.Output = logging.OutputStderr

		docs, err := loadSeedFile(args[1])
		if err != nil {
			return err
		}

		infra, err := infrastructure.New(cfg)
		if err != nil {
			return err
		}
		defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

		if err := infra.Start(); err != nil {
			return err
		}

		domain, err := api.NewDomain(api.NewRuntime(cfg, infra), cfg)
		if err != nil {
			return err
		}

		m, err := findModel(domain, args[0])
		if err != nil {
			return err
		}

		created, err := m.InsertMany(context.Background(), docs)
		if err != nil {
			return fmt.Errorf("seed %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d %s\n", len(created), args[0])
		return nil
	},
}

func findModel(domain *api.Domain, name string) (model.Model, error) {
	names := make([]string, 0, len(domain.Resources))
	for _, res := range domain.Resources {
		if res.Model.Name() == name {
			return res.Model, nil
		}
		names = append(names, res.Model.Name())
	}
	return nil, fmt.Errorf("unknown model %q (configured: %s)", name, strings.Join(names, ", "))
}

// loadSeedFile reads one document or an array of documents.
// Files ending in .yaml or .yml are parsed as YAML, anything else as JSON.
func loadSeedFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
		if err == nil {
			// normalize YAML scalars to their JSON equivalents
			data, err = json.Marshal(raw)
			if err == nil {
				err = json.Unmarshal(data, &raw)
			}
		}
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	switch v := raw.(type) {
	case map[string]any:
		return []model.Document{v}, nil
	case []any:
		docs := make([]model.Document, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("seed file %s: item %d is not an object", path, i)
			}
			docs = append(docs, obj)
		}
		return docs, nil
	default:
		return nil, fmt.Errorf("seed file %s: expected an object or an array of objects", path)
	}
}
