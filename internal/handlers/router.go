package handlers

import (
	"net/http"
)

func Welcome() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Welcome to the Blog API"))
	}
}

// NotFound answers every route no handler claims.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found - "+r.URL.Path)
	}
}

func NewRouter(h *PostsHandler, health http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", Welcome())
	mux.HandleFunc("GET /health", health)

	mux.HandleFunc("POST /api/posts", h.Create())
	mux.HandleFunc("GET /api/posts", h.List())
	mux.HandleFunc("GET /api/posts/{id}", h.GetByID())
	mux.HandleFunc("PATCH /api/posts/{id}", h.Update())
	mux.HandleFunc("DELETE /api/posts/{id}", h.Delete())

	mux.HandleFunc("/", NotFound())

	return mux
}
