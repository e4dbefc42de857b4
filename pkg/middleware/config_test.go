package middleware_test

import (
	"testing"

	"github.com/JaimeStill/crudify/pkg/middleware"
)

func TestCORSConfig_Finalize_PreservesValues(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:        true,
		Origins:        []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Authorization"},
		MaxAge:         7200,
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if len(cfg.AllowedMethods) != 1 || cfg.AllowedMethods[0] != "GET" {
		t.Errorf("AllowedMethods = %v, want [GET]", cfg.AllowedMethods)
	}
	if len(cfg.AllowedHeaders) != 1 || cfg.AllowedHeaders[0] != "Authorization" {
		t.Errorf("AllowedHeaders = %v, want [Authorization]", cfg.AllowedHeaders)
	}
	if cfg.MaxAge != 7200 {
		t.Errorf("MaxAge = %d, want 7200", cfg.MaxAge)
	}
}

func TestCORSConfig_Merge(t *testing.T) {
	tests := []struct {
		name            string
		base            middleware.CORSConfig
		overlay         middleware.CORSConfig
		wantEnabled     bool
		wantOriginsLen  int
		wantMethodsLen  int
		wantMaxAge      int
		wantCredentials bool
	}{
		{
			name: "overlay overrides all",
			base: middleware.CORSConfig{
				Origins:        []string{"http://a.com"},
				AllowedMethods: []string{"GET"},
				MaxAge:         60,
			},
			overlay: middleware.CORSConfig{
				Enabled:          true,
				Origins:          []string{"http://b.com", "http://c.com"},
				AllowedMethods:   []string{"GET", "POST", "PUT"},
				AllowCredentials: true,
				MaxAge:           120,
			},
			wantEnabled:     true,
			wantOriginsLen:  2,
			wantMethodsLen:  3,
			wantMaxAge:      120,
			wantCredentials: true,
		},
		{
			name: "nil slices preserve base",
			base: middleware.CORSConfig{
				Origins:        []string{"http://a.com"},
				AllowedMethods: []string{"GET", "POST"},
				MaxAge:         60,
			},
			wantOriginsLen: 1,
			wantMethodsLen: 2,
			wantMaxAge:     60,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.base.Merge(&tt.overlay)

			if tt.base.Enabled != tt.wantEnabled {
				t.Errorf("Enabled = %v, want %v", tt.base.Enabled, tt.wantEnabled)
			}
			if len(tt.base.Origins) != tt.wantOriginsLen {
				t.Errorf("Origins length = %d, want %d", len(tt.base.Origins), tt.wantOriginsLen)
			}
			if len(tt.base.AllowedMethods) != tt.wantMethodsLen {
				t.Errorf("AllowedMethods length = %d, want %d", len(tt.base.AllowedMethods), tt.wantMethodsLen)
			}
			if tt.base.MaxAge != tt.wantMaxAge {
				t.Errorf("MaxAge = %d, want %d", tt.base.MaxAge, tt.wantMaxAge)
			}
			if tt.base.AllowCredentials != tt.wantCredentials {
				t.Errorf("AllowCredentials = %v, want %v", tt.base.AllowCredentials, tt.wantCredentials)
			}
		})
	}
}
