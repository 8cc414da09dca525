package deferblockchi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	reg := Mount(r, testKey())

	if reg == nil {
		t.Fatal("Mount returned nil registry")
	}
}

func TestMountUnknownDescriptorIs404(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, testKey())

	req := httptest.NewRequest(http.MethodGet, "/_defer/widget", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from registry dispatch for unknown descriptor, got %d", rec.Code)
	}
}

func TestCSRFProtection(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, testKey())

	req := httptest.NewRequest(http.MethodPost, "/_defer/widget/main", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for POST without HX-Request, got %d", rec.Code)
	}
}

func TestMountWithCORSOriginsSetsHeaders(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, testKey(), WithCORSOrigins("https://shell.example.com"))

	req := httptest.NewRequest(http.MethodGet, "/_defer/widget", nil)
	req.Header.Set("Origin", "https://shell.example.com")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shell.example.com" {
		t.Errorf("Access-Control-Allow-Origin = %q, want https://shell.example.com", got)
	}
}
