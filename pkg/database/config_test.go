package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/crudify/pkg/database"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	cfg := &database.Config{
		Name: "crudify",
		User: "crudify",
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want %q", cfg.Host, "localhost")
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want %d", cfg.Port, 5432)
	}
	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns = %d, want %d", cfg.MaxOpenConns, 25)
	}
	if cfg.MaxIdleConns != 5 {
		t.Errorf("MaxIdleConns = %d, want %d", cfg.MaxIdleConns, 5)
	}
	if cfg.ConnMaxLifetimeDuration() != 15*time.Minute {
		t.Errorf("ConnMaxLifetimeDuration() = %v, want 15m", cfg.ConnMaxLifetimeDuration())
	}
	if cfg.ConnTimeoutDuration() != 5*time.Second {
		t.Errorf("ConnTimeoutDuration() = %v, want 5s", cfg.ConnTimeoutDuration())
	}
}

func TestConfig_Finalize_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "envhost")
	t.Setenv("TEST_DB_PORT", "5434")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_PASSWORD", "envsecret")
	t.Setenv("TEST_DB_MAX_OPEN", "100")
	t.Setenv("TEST_DB_MAX_IDLE", "20")
	t.Setenv("TEST_DB_LIFETIME", "1h")
	t.Setenv("TEST_DB_TIMEOUT", "30s")

	cfg := &database.Config{}
	env := &database.Env{
		Host:            "TEST_DB_HOST",
		Port:            "TEST_DB_PORT",
		Name:            "TEST_DB_NAME",
		User:            "TEST_DB_USER",
		Password:        "TEST_DB_PASSWORD",
		MaxOpenConns:    "TEST_DB_MAX_OPEN",
		MaxIdleConns:    "TEST_DB_MAX_IDLE",
		ConnMaxLifetime: "TEST_DB_LIFETIME",
		ConnTimeout:     "TEST_DB_TIMEOUT",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	want := database.Config{
		Host:            "envhost",
		Port:            5434,
		Name:            "envdb",
		User:            "envuser",
		Password:        "envsecret",
		MaxOpenConns:    100,
		MaxIdleConns:    20,
		ConnMaxLifetime: "1h",
		ConnTimeout:     "30s",
	}
	if *cfg != want {
		t.Errorf("Finalize() = %+v, want %+v", *cfg, want)
	}
}

func TestConfig_Finalize_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"missing name", database.Config{User: "user"}, "name required"},
		{"missing user", database.Config{Name: "db"}, "user required"},
		{"invalid conn_max_lifetime", database.Config{Name: "db", User: "user", ConnMaxLifetime: "invalid"}, "invalid conn_max_lifetime"},
		{"invalid conn_timeout", database.Config{Name: "db", User: "user", ConnTimeout: "invalid"}, "invalid conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("Finalize() should return error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_Merge(t *testing.T) {
	base := database.Config{Host: "localhost", Port: 5432, Name: "db1", User: "user1", MaxOpenConns: 25}
	base.Merge(&database.Config{Host: "remotehost", Password: "secret"})

	want := database.Config{Host: "remotehost", Port: 5432, Name: "db1", User: "user1", Password: "secret", MaxOpenConns: 25}
	if base != want {
		t.Errorf("Merge() = %+v, want %+v", base, want)
	}
}

func TestConfig_Dsn(t *testing.T) {
	cfg := database.Config{Host: "db", Port: 5433, Name: "crudify", User: "app", Password: "pw"}

	want := "host=db port=5433 dbname=crudify user=app password=pw sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}
