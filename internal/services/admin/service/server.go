package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Newpaw/aivoice-flow-with-mcp/internal/services/flow/storage"
)

const shutdownTimeout = 10 * time.Second

// Server exposes the upgrade request ledger over HTTP for operators.
type Server struct {
	ledger  storage.Ledger
	metrics *Metrics
}

// New builds an admin server over the given ledger.
func New(ledger storage.Ledger, metrics *Metrics) *Server {
	if metrics == nil {
		metrics = NewMetrics("offer_flow_admin")
	}
	return &Server{ledger: ledger, metrics: metrics}
}

// Router returns the admin HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		s.metrics.Handler().ServeHTTP(w, req)
	})

	r.Get("/v1/upgrade-requests", s.handleList)
	r.Get("/v1/upgrade-requests/{id}", s.handleGet)
	r.Post("/v1/upgrade-requests/{id}/status", s.handleUpdateStatus)
	r.Delete("/v1/upgrade-requests/{id}", s.handleDelete)

	return r
}

// Run serves the admin API until context cancellation.
func (s *Server) Run(ctx context.Context, addr string) error {
	if strings.TrimSpace(addr) == "" {
		addr = "localhost:8090"
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	log.Printf("Starting admin server on %s", addr)

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("Shutting down admin server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown admin server: %w", err)
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("admin server error: %w", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.metrics.Requests.WithLabelValues("list", "bad_request").Inc()
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	requests, err := s.ledger.ListUpgradeRequests(r.Context(), limit)
	if err != nil {
		s.metrics.Requests.WithLabelValues("list", "error").Inc()
		s.metrics.LedgerErrors.WithLabelValues("list").Inc()
		respondError(w, http.StatusInternalServerError, "ledger_error", err.Error())
		return
	}

	s.metrics.Requests.WithLabelValues("list", "ok").Inc()
	respondJSON(w, http.StatusOK, map[string]any{
		"upgrade_requests": requests,
		"count":            len(requests),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		s.metrics.Requests.WithLabelValues("get", "bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request_id", "missing request id")
		return
	}

	request, err := s.ledger.GetUpgradeRequest(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.Requests.WithLabelValues("get", "not_found").Inc()
			respondError(w, http.StatusNotFound, "request_not_found", err.Error())
			return
		}
		s.metrics.Requests.WithLabelValues("get", "error").Inc()
		s.metrics.LedgerErrors.WithLabelValues("get").Inc()
		respondError(w, http.StatusInternalServerError, "ledger_error", err.Error())
		return
	}

	s.metrics.Requests.WithLabelValues("get", "ok").Inc()
	respondJSON(w, http.StatusOK, request)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		s.metrics.Requests.WithLabelValues("update_status", "bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request_id", "missing request id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.metrics.Requests.WithLabelValues("update_status", "bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(body.Status) == "" {
		s.metrics.Requests.WithLabelValues("update_status", "bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_status", "status is required")
		return
	}

	if err := s.ledger.UpdateUpgradeRequestStatus(r.Context(), id, body.Status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.Requests.WithLabelValues("update_status", "not_found").Inc()
			respondError(w, http.StatusNotFound, "request_not_found", err.Error())
			return
		}
		s.metrics.Requests.WithLabelValues("update_status", "error").Inc()
		s.metrics.LedgerErrors.WithLabelValues("update_status").Inc()
		respondError(w, http.StatusInternalServerError, "ledger_error", err.Error())
		return
	}

	s.metrics.Requests.WithLabelValues("update_status", "ok").Inc()
	s.metrics.StatusUpdates.Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"request_id": id,
		"status":     strings.TrimSpace(body.Status),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if strings.TrimSpace(id) == "" {
		s.metrics.Requests.WithLabelValues("delete", "bad_request").Inc()
		respondError(w, http.StatusBadRequest, "invalid_request_id", "missing request id")
		return
	}

	if err := s.ledger.DeleteUpgradeRequest(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.metrics.Requests.WithLabelValues("delete", "not_found").Inc()
			respondError(w, http.StatusNotFound, "request_not_found", err.Error())
			return
		}
		s.metrics.Requests.WithLabelValues("delete", "error").Inc()
		s.metrics.LedgerErrors.WithLabelValues("delete").Inc()
		respondError(w, http.StatusInternalServerError, "ledger_error", err.Error())
		return
	}

	s.metrics.Requests.WithLabelValues("delete", "ok").Inc()
	respondJSON(w, http.StatusOK, map[string]string{
		"request_id": id,
		"status":     "deleted",
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
