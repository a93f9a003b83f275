package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generated when absent", func(t *testing.T) {
		var seen string
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if seen == "" {
			t.Error("no request id in context")
		}
		if rec.Header().Get("X-Request-ID") != seen {
			t.Errorf("header %q, context %q", rec.Header().Get("X-Request-ID"), seen)
		}
	})

	t.Run("incoming id respected", func(t *testing.T) {
		h := RequestID(okHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("header %q", got)
		}
	})
}

func TestCORS(t *testing.T) {
	mw := CORS([]string{"http://localhost:3000"})

	t.Run("allowed origin preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("status %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("allow-origin %q", got)
		}
	})

	t.Run("unknown origin gets no headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec := httptest.NewRecorder()
		mw(okHandler()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status %d", rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("allow-origin %q", got)
		}
	})
}

func TestAPIKey(t *testing.T) {
	t.Run("disabled when unset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		APIKey("")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status %d", rec.Code)
		}
	})

	t.Run("reads stay open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		APIKey("secret")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status %d", rec.Code)
		}
	})

	t.Run("write without key rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		APIKey("secret")(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status %d", rec.Code)
		}
	})

	t.Run("write with key accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/posts/x", nil)
		req.Header.Set("X-API-Key", "secret")
		rec := httptest.NewRecorder()
		APIKey("secret")(okHandler()).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status %d", rec.Code)
		}
	})
}
