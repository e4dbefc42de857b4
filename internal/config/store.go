package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/crudify/pkg/database"
)

// Store driver names.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

const (
	EnvStoreDriver = "STORE_DRIVER"
	EnvStorePath   = "STORE_PATH"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
}

// StoreConfig selects the document store backing every model.
// Path is the data directory of the file driver. Database is only
// finalized when the postgres driver is selected.
type StoreConfig struct {
	Driver   string          `toml:"driver"`
	Path     string          `toml:"path"`
	Database database.Config `toml:"database"`
}

func (c *StoreConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if c.Driver == DriverPostgres {
		if err := c.Database.Finalize(databaseEnv); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	return nil
}

func (c *StoreConfig) Merge(overlay *StoreConfig) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	c.Database.Merge(&overlay.Database)
}

func (c *StoreConfig) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.Path == "" {
		c.Path = ".data"
	}
}

func (c *StoreConfig) loadEnv() {
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Path = v
	}
}

func (c *StoreConfig) validate() error {
	switch c.Driver {
	case DriverFile, DriverPostgres:
		return nil
	default:
		return fmt.Errorf("unsupported driver %q (must be %s or %s)", c.Driver, DriverFile, DriverPostgres)
	}
}
