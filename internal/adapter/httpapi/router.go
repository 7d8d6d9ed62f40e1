package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// NewRouter wires the simulation endpoints onto a ServeMux. apiToken
// may be empty, which disables the auth check.
func NewRouter(handler *SimulationHandler, apiToken string, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		return WithLogging(logger, WithAuth(apiToken, next))
	}

	mux.HandleFunc("POST /simulate", wrap(handler.Simulate))
	mux.HandleFunc("GET /baseline", wrap(handler.Baseline))
	mux.HandleFunc("GET /councils", wrap(handler.Councils))
	mux.HandleFunc("GET /submissions", wrap(handler.Submissions))

	return mux
}
