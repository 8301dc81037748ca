package api

import (
	"net/http"
	"sync"

	"github.com/gorilla/mux"

	"github.com/quarrybuild/quarry/pkg/diagnostics"
	"github.com/quarrybuild/quarry/pkg/history"
	"github.com/quarrybuild/quarry/pkg/httputil"
	"github.com/quarrybuild/quarry/pkg/observability"
	"github.com/quarrybuild/quarry/pkg/registry"
)

// Server serves the resolution API. The active registry is swappable so a
// workspace watcher can install fresh registries without restarting; each
// resolution call still builds its own private graph state.
type Server struct {
	router  *mux.Router
	handler http.Handler
	logger  *observability.Logger
	metrics *observability.Metrics
	history *history.Store // nil disables the history endpoints
	diag    diagnostics.DaemonDiagnostics

	mu  sync.RWMutex
	reg *registry.Registry
}

// NewServer creates the API server. history may be nil.
func NewServer(reg *registry.Registry, logger *observability.Logger, metrics *observability.Metrics, hist *history.Store, diag diagnostics.DaemonDiagnostics) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: metrics,
		history: hist,
		diag:    diag,
		reg:     reg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/scopes", s.getScopes).Methods("GET")
	api.HandleFunc("/binaries/{key}/dependents", s.getDependents).Methods("GET")
	api.HandleFunc("/binaries/{key}/graph", s.getDependentsGraph).Methods("GET")
	api.HandleFunc("/history", s.getHistory).Methods("GET")
	api.HandleFunc("/daemon/diagnostics", s.getDiagnostics).Methods("GET")

	// Metrics run inside mux routing so the matched route template is
	// available as the path label.
	s.router.Use(httputil.MetricsMiddleware(s.metrics))

	s.handler = httputil.Chain(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(s.logger),
		httputil.RecoveryMiddleware(s.logger),
	)(s.router)
}

// SetRegistry installs a freshly loaded registry. In-flight resolutions keep
// the snapshot they were started with.
func (s *Server) SetRegistry(reg *registry.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = reg
}

func (s *Server) currentRegistry() *registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
