package main

import (
	"time"

	"github.com/JaimeStill/crudify/internal/api"
	"github.com/JaimeStill/crudify/internal/config"
	"github.com/JaimeStill/crudify/internal/infrastructure"
	"github.com/JaimeStill/crudify/internal/server"
	"github.com/JaimeStill/crudify/pkg/routes"
)

// Server coordinates the lifecycle of all subsystems.
type Server struct {
	infra  *infrastructure.Infrastructure
	module *api.Module
	http   server.System
}

// NewServer creates and initializes the service with all subsystems.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	r := routes.New(infra.Logger)
	registerInfraRoutes(r, infra)

	module, err := api.NewModule(cfg, api.NewRuntime(cfg, infra), r)
	if err != nil {
		return nil, err
	}

	handler := buildMiddleware(infra, cfg).Apply(r.Build())

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"store", cfg.Store.Driver,
	)

	return &Server{
		infra:  infra,
		module: module,
		http:   server.New(&cfg.Server, handler, infra.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("all subsystems ready", "resources", len(s.module.Domain.Resources))
	}()

	return nil
}

// Shutdown gracefully stops all subsystems within the provided timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
