package docs_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/crudify/pkg/routes"
	"github.com/JaimeStill/crudify/web/docs"
)

func TestHandler_ServesReference(t *testing.T) {
	h, err := docs.NewHandler("Users <API>", "/api/openapi.json")
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	r := routes.New(slog.New(slog.DiscardHandler))
	r.RegisterGroup(h.Routes())

	rec := httptest.NewRecorder()
	r.Build().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, docs.Prefix, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body, _ := io.ReadAll(rec.Body)
	page := string(body)

	if !strings.Contains(page, `data-url="/api/openapi.json"`) {
		t.Errorf("page does not reference the document:\n%s", page)
	}
	if !strings.Contains(page, "<title>Users &lt;API&gt;</title>") {
		t.Errorf("title not escaped:\n%s", page)
	}
}
