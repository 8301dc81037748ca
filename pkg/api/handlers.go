package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/quarrybuild/quarry/pkg/dependents"
	"github.com/quarrybuild/quarry/pkg/history"
	"github.com/quarrybuild/quarry/pkg/httputil"
	"github.com/quarrybuild/quarry/pkg/model"
	"github.com/quarrybuild/quarry/pkg/observability"
)

// scopeSummary is the JSON shape of one scope in the scopes listing.
type scopeSummary struct {
	Path       string             `json:"path"`
	Native     bool               `json:"native"`
	Components []componentSummary `json:"components"`
}

type componentSummary struct {
	Name     string          `json:"name"`
	Binaries []binarySummary `json:"binaries"`
}

type binarySummary struct {
	Key       string `json:"key"`
	Buildable bool   `json:"buildable"`
	TestSuite bool   `json:"testSuite"`
}

// getScopes handles GET /api/v1/scopes
func (s *Server) getScopes(w http.ResponseWriter, r *http.Request) {
	scopes, err := s.currentRegistry().AllScopes()
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	summaries := make([]scopeSummary, 0, len(scopes))
	for _, scope := range scopes {
		summary := scopeSummary{
			Path:       scope.Path(),
			Native:     scope.HasNativeModel(),
			Components: make([]componentSummary, 0),
		}
		for _, component := range scope.NativeComponents() {
			cs := componentSummary{Name: component.Name(), Binaries: make([]binarySummary, 0)}
			for _, binary := range component.Binaries() {
				cs.Binaries = append(cs.Binaries, binarySummary{
					Key:       binary.ID().Key(),
					Buildable: binary.Buildable(),
					TestSuite: binary.TestSuite(),
				})
			}
			summary.Components = append(summary.Components, cs)
		}
		summaries = append(summaries, summary)
	}

	httputil.WriteSuccess(w, map[string]interface{}{
		"scopes": summaries,
		"count":  len(summaries),
	})
}

// getDependents handles GET /api/v1/binaries/{key}/dependents
func (s *Server) getDependents(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	results, ok := s.resolve(w, r, key)
	if !ok {
		return
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"target":     key,
		"dependents": results,
		"count":      dependents.CountNodes(results),
	})
}

// resolve runs one resolution request and handles every error outcome. The
// second return value is false when a response has already been written.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, key string) ([]*dependents.ResolvedResult, bool) {
	reg := s.currentRegistry()
	target, found := reg.FindBinary(key)
	if !found {
		httputil.WriteNotFoundError(w, "unknown binary: "+key)
		return nil, false
	}

	resolver := dependents.NewResolver(reg)
	start := time.Now()
	results, supported, err := resolver.ResolveDependents(target)
	elapsed := time.Since(start)

	switch {
	case !supported:
		s.record(r, key, history.OutcomeUnsupported, 0, elapsed)
		httputil.WriteNotFoundError(w, "no resolution strategy for binary: "+key)
		return nil, false
	case err != nil:
		var cycleErr *dependents.CircularDependencyError
		if errors.As(err, &cycleErr) {
			s.metrics.CycleErrorsTotal.Inc()
			s.record(r, key, history.OutcomeCycle, 0, elapsed)
			httputil.WriteDetailedError(w, http.StatusConflict, err, map[string]string{
				"diagram": cycleErr.Diagram,
			})
			return nil, false
		}
		s.record(r, key, history.OutcomeError, 0, elapsed)
		httputil.WriteInternalError(w, err)
		return nil, false
	}

	nodes := dependents.CountNodes(results)
	s.metrics.ObserveResolution(history.OutcomeResolved, nodes, elapsed)
	s.record(r, key, history.OutcomeResolved, nodes, elapsed)
	return results, true
}

func (s *Server) record(r *http.Request, target, outcome string, nodes int, elapsed time.Duration) {
	if outcome != history.OutcomeResolved {
		s.metrics.ObserveResolution(outcome, nodes, elapsed)
	}
	if s.history == nil {
		return
	}
	rec := history.Record{Target: target, Outcome: outcome, NodeCount: nodes, Duration: elapsed}
	if err := s.history.Add(r.Context(), rec); err != nil {
		observability.FromContext(r.Context()).WithError(err).Warn("failed to record resolution history")
	}
}

// getHistory handles GET /api/v1/history
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		httputil.WriteNotFoundError(w, "resolution history is disabled")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	records, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	httputil.WriteSuccess(w, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// getDiagnostics handles GET /api/v1/daemon/diagnostics
func (s *Server) getDiagnostics(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]interface{}{
		"pid":         s.diag.Pid,
		"logFile":     s.diag.LogFile,
		"description": s.diag.Describe(),
	})
}

// binaryLabel renders a binary identity for diagrams and summaries.
func binaryLabel(id model.BinaryID) string {
	return id.String()
}
