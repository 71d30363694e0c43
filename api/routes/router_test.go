package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/metrics"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "pakhshyar",
			ExpirationMinutes: 30,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return NewRouter(cfg, logg, nil, nil, nil, metrics.New("test"), nil, Services{})
}

func TestRouterHealthLive(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := testRouter(t)

	paths := []string{
		"/api/v1/orders",
		"/api/v1/products",
		"/api/admin/v1/orders",
		"/api/admin/v1/representatives",
		"/api/admin/v1/dashboard/stats",
	}
	for _, path := range paths {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for %s without credentials, got %d", path, w.Code)
		}
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
