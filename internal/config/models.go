package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/openapi"
)

// ModelConfig declares a document model and the resource that exposes it.
// Schema is a JSON or YAML schema file. URL defaults to "/" + Name.
type ModelConfig struct {
	Name       string   `toml:"name"`
	URL        string   `toml:"url"`
	Schema     string   `toml:"schema"`
	Timestamps bool     `toml:"timestamps"`
	Tags       []string `toml:"tags"`
}

// Definition loads the schema file and returns the model definition.
func (c *ModelConfig) Definition() (model.Definition, error) {
	def := model.Definition{
		Name:       c.Name,
		Timestamps: c.Timestamps,
	}
	if c.Schema == "" {
		return def, nil
	}

	s, err := openapi.LoadSchema(c.Schema)
	if err != nil {
		return model.Definition{}, fmt.Errorf("model %s: %w", c.Name, err)
	}
	def.Schema = s
	return def, nil
}

func (c *ModelConfig) Finalize() error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.URL == "" {
		c.URL = "/" + c.Name
	}
	if !strings.HasPrefix(c.URL, "/") || strings.HasSuffix(c.URL, "/") {
		return fmt.Errorf("invalid url %q", c.URL)
	}
	return nil
}
