package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/bigking1998/algo-trade-bot-sub010/internal/adapters/repository/strategyrepo"
	"github.com/bigking1998/algo-trade-bot-sub010/internal/core/strategy"
	"github.com/bigking1998/algo-trade-bot-sub010/pkg/strategygraph"
	"github.com/bigking1998/algo-trade-bot-sub010/pkg/validation"
)

// server owns one compiler instance shared by all requests. The
// compiler is safe for concurrent use, so no request-level locking is
// needed here.
type server struct {
	compiler       *strategygraph.Compiler
	drafts         *strategyrepo.InMemoryRepository
	compileTimeout time.Duration
}

func newServer() *server {
	timeout := 10 * time.Second
	if v := os.Getenv("STRATEGYGRAPH_COMPILE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			timeout = d
		}
	}
	return &server{
		compiler:       strategygraph.New(),
		drafts:         strategyrepo.NewInMemoryRepository(),
		compileTimeout: timeout,
	}
}

func (s *server) handleRoot(w http.ResponseWriter, r *http.Request) {
	_, _ = fmt.Fprintln(w, "Strategy graph server is running. See /healthz, /v1/validate, /v1/compile, /v1/rules, /v1/drafts, /metrics, /debug/pprof/")
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "ok")
}

// handleValidate runs the rule engine against a submitted graph and
// returns the full validation report.
func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cfg validation.GraphConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := validation.ValidateStruct(&cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report := s.compiler.Validate(cfg.ToGraph())
	writeJSON(w, http.StatusOK, report)
}

// handleCompile validates and, when the graph carries no blocking
// errors, compiles it to executable strategy code. The report is
// always returned so clients can surface warnings alongside the code.
func (s *server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req validation.CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	level := strategygraph.OptimizationBasic
	if req.Optimization != "" {
		level = strategygraph.OptimizationLevel(req.Optimization)
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.compileTimeout)
	defer cancel()

	report, result := s.compiler.ValidateAndCompile(ctx, req.Graph.ToGraph(), level)
	status := http.StatusOK
	if result == nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, compileResponse{Report: report, Result: result})
}

// handleRules lists registered rule IDs (GET) or registers a CEL
// expression rule (POST).
func (s *server) handleRules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rulesResponse{Rules: s.compiler.ListRules()})
	case http.MethodPost:
		var req registerRuleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
			return
		}
		if req.ID == "" || req.Expression == "" {
			writeError(w, http.StatusBadRequest, "id and expression are required")
			return
		}
		err := s.compiler.RegisterExpressionRule(req.ID,
			strategygraph.Category(req.Category),
			strategygraph.Severity(req.Severity),
			req.Expression, req.Message)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("expression rejected: %v", err))
			return
		}
		writeJSON(w, http.StatusCreated, rulesResponse{Rules: s.compiler.ListRules()})
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id query parameter is required")
			return
		}
		if !s.compiler.RemoveRule(id) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("rule %q not registered", id))
			return
		}
		writeJSON(w, http.StatusOK, rulesResponse{Rules: s.compiler.ListRules()})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDrafts stores and retrieves editor drafts. Drafts live in memory
// only: durable strategy storage belongs to the surrounding platform.
func (s *server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			g, err := s.drafts.Get(r.Context(), id)
			if err != nil {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, g)
			return
		}
		all, err := s.drafts.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, all)
	case http.MethodPut, http.MethodPost:
		var cfg validation.GraphConfig
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
			return
		}
		if err := validation.ValidateStruct(&cfg); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		g := cfg.ToGraph()
		if err := s.drafts.Save(r.Context(), g); err != nil {
			status := http.StatusUnprocessableEntity
			if err == strategy.ErrInvalidGraphName {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, g)
	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id query parameter is required")
			return
		}
		if !s.drafts.Delete(r.Context(), id) {
			writeError(w, http.StatusNotFound, strategy.ErrGraphNotFound.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type compileResponse struct {
	Report *strategygraph.ValidationReport  `json:"report"`
	Result *strategygraph.CompilationResult `json:"result,omitempty"`
}

type rulesResponse struct {
	Rules []string `json:"rules"`
}

type registerRuleRequest struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	Expression string `json:"expression"`
	Message    string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
