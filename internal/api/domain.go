package api

import (
	"fmt"
	"io"

	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/store/jsonfile"
	"github.com/JaimeStill/crudify/pkg/store/postgres"
)

// Resource pairs a configured model with the store that backs it.
type Resource struct {
	Config     config.ModelConfig
	Definition model.Definition
	Model      model.Model
}

// Domain holds the resources that comprise the API, in configuration order.
type Domain struct {
	Resources []Resource
}

// NewDomain loads every model schema and opens its store on the configured driver.
// File stores release their lock handles on shutdown.
func NewDomain(runtime *Runtime, cfg *config.Config) (*Domain, error) {
	domain := &Domain{Resources: make([]Resource, 0, len(cfg.Models))}

	for _, mc := range cfg.Models {
		def, err := mc.Definition()
		if err != nil {
			return nil, err
		}

		m, err := openModel(runtime, &cfg.Store, def)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", def.Name, err)
		}

		if c, ok := m.(io.Closer); ok {
			runtime.Lifecycle.OnShutdown(func() {
				<-runtime.Lifecycle.Context().Done()
				if err := c.Close(); err != nil {
					runtime.Logger.Error("store close error", "model", def.Name, "error", err)
				}
			})
		}

		domain.Resources = append(domain.Resources, Resource{
			Config:     mc,
			Definition: def,
			Model:      m,
		})
	}

	return domain, nil
}

func openModel(runtime *Runtime, cfg *config.StoreConfig, def model.Definition) (model.Model, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(runtime.Database.Connection(), def, runtime.Pagination, runtime.Logger)
	default:
		return jsonfile.New(cfg.Path, def, runtime.Pagination, runtime.Logger)
	}
}
