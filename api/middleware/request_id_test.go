package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func runRequestID(t *testing.T, incoming string) *httptest.ResponseRecorder {
	t.Helper()

	handler := RequestID(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodGet, "/orders", nil)
	if incoming != "" {
		r.Header.Set(requestIDHeader, incoming)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func TestRequestIDEchoesCallerValue(t *testing.T) {
	w := runRequestID(t, "  trace-42  ")
	if got := w.Header().Get(requestIDHeader); got != "trace-42" {
		t.Fatalf("expected trimmed caller id echoed back, got %q", got)
	}
}

func TestRequestIDMintsWhenMissing(t *testing.T) {
	w := runRequestID(t, "")
	got := w.Header().Get(requestIDHeader)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a minted uuid, got %q: %v", got, err)
	}
}

func TestRequestIDRejectsOversizedValue(t *testing.T) {
	oversized := strings.Repeat("x", maxRequestIDLen+1)
	w := runRequestID(t, oversized)
	got := w.Header().Get(requestIDHeader)
	if got == oversized {
		t.Fatalf("oversized caller id must not be echoed back")
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("expected a minted uuid, got %q: %v", got, err)
	}
}
