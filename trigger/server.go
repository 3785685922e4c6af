package trigger

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP trigger surface: GET / starts a run
// asynchronously and acknowledges immediately, GET /health is a liveness
// probe.
func NewRouter(gate *Gate) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		if gate.TryStart("http") {
			fmt.Fprintln(w, "run started")
			return
		}
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintln(w, "run already in progress")
	})

	return r
}
