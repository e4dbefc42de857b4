package routes_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/crudify/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, body+r.PathValue("id"))
	}
}

func TestSystem_Build(t *testing.T) {
	r := routes.New(slog.New(slog.DiscardHandler))

	r.RegisterRoute(routes.Route{Method: "GET", Pattern: "/healthz", Handler: respond("ok")})
	r.RegisterGroup(routes.Group{
		Prefix: "/api/users",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: respond("list")},
			{Method: "GET", Pattern: "/{id}", Handler: respond("user ")},
		},
		Children: []routes.Group{
			{
				Prefix: "/{id}/posts",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: respond("posts of ")},
				},
			},
		},
	})

	handler := r.Build()

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"GET", "/healthz", http.StatusOK, "ok"},
		{"GET", "/api/users", http.StatusOK, "list"},
		{"GET", "/api/users/42", http.StatusOK, "user 42"},
		{"GET", "/api/users/42/posts", http.StatusOK, "posts of 42"},
		{"POST", "/api/users", http.StatusMethodNotAllowed, ""},
		{"GET", "/api/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestSystem_Registrations(t *testing.T) {
	r := routes.New(slog.New(slog.DiscardHandler))

	if len(r.Routes()) != 0 || len(r.Groups()) != 0 {
		t.Fatal("new system should be empty")
	}

	r.RegisterRoute(routes.Route{Method: "GET", Pattern: "/a", Handler: respond("a")})
	r.RegisterGroup(routes.Group{Prefix: "/b"})
	r.RegisterGroup(routes.Group{Prefix: "/c"})

	if len(r.Routes()) != 1 {
		t.Errorf("Routes() len = %d, want 1", len(r.Routes()))
	}
	if groups := r.Groups(); len(groups) != 2 || groups[0].Prefix != "/b" || groups[1].Prefix != "/c" {
		t.Errorf("Groups() = %+v, want registration order", groups)
	}
}
