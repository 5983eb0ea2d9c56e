package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appscan "github.com/bryanwahyu/drive-sentinel/internal/application/scan"
	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
	"github.com/bryanwahyu/drive-sentinel/internal/middleware"
)

type Router struct {
	scanSvc *appscan.Service
	cache   *appscan.Cache
}

func NewRouter(scanSvc *appscan.Service, cache *appscan.Cache) http.Handler {
	r := &Router{scanSvc: scanSvc, cache: cache}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{tenant}", func(rt chi.Router) {
		rt.Post("/scan", r.wrap(r.handleScan))
		rt.Get("/scan/cached", r.wrap(r.handleCached))
		rt.Get("/failures", r.wrap(r.handleFailures))
		rt.Get("/cache/status", r.wrap(r.handleCacheStatus))
		rt.Delete("/cache", r.wrap(r.handleInvalidateAll))
		rt.Delete("/cache/{targetID}", r.wrap(r.handleInvalidate))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				http.Error(w, "file store unavailable", http.StatusServiceUnavailable)
				return
			}
			if errors.Is(err, domain.ErrEnumeration) {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// POST /v1/{tenant}/scan
// Body: {"root_id": "<folder id or \"drive\">", "recursive": true}
// Returns the cached report when one is fresh; otherwise runs the scan.
func (r *Router) handleScan(w http.ResponseWriter, req *http.Request) error {
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	var body struct {
		RootID    string `json:"root_id"`
		Recursive bool   `json:"recursive"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return err
	}
	body.RootID = middleware.SanitizeString(body.RootID)
	if err := middleware.ValidateTargetID(body.RootID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	middleware.IncrementScans()
	middleware.IncrementScansRunning()
	defer middleware.DecrementScansRunning()

	report, err := r.scanSvc.Scan(req.Context(), tenant, body.RootID, body.Recursive)
	if err != nil {
		middleware.IncrementScansFailed()
		return err
	}
	middleware.RecordScanComplete(report.ProcessedFiles)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /v1/{tenant}/scan/cached?target_id=
func (r *Router) handleCached(w http.ResponseWriter, req *http.Request) error {
	targetID := req.URL.Query().Get("target_id")
	if err := middleware.ValidateTargetID(targetID); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}

	report, ok := r.cache.Get(targetID)
	if !ok {
		http.Error(w, "no cached result", http.StatusNotFound)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /v1/{tenant}/failures?scan_id=&limit=
// Reads the persisted failure audit trail for one scan.
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	if r.scanSvc.Failures == nil {
		http.Error(w, "failure audit log disabled", http.StatusNotFound)
		return nil
	}
	tenant := chi.URLParam(req, "tenant")
	if err := middleware.ValidateTenantID(tenant); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil
	}
	scanID := req.URL.Query().Get("scan_id")
	if scanID == "" {
		return fmt.Errorf("scan_id is required")
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	limit = middleware.ValidateLimit(limit)

	failures, err := r.scanSvc.Failures.ListByScan(req.Context(), tenant, scanID, limit)
	if err != nil {
		return err
	}
	if failures == nil {
		failures = []*domain.Failure{}
	}
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(failures)
}

// GET /v1/{tenant}/cache/status
func (r *Router) handleCacheStatus(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(r.cache.Status())
}

// DELETE /v1/{tenant}/cache/{targetID}
func (r *Router) handleInvalidate(w http.ResponseWriter, req *http.Request) error {
	targetID := chi.URLParam(req, "targetID")
	r.cache.Invalidate(targetID)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// DELETE /v1/{tenant}/cache
func (r *Router) handleInvalidateAll(w http.ResponseWriter, req *http.Request) error {
	r.cache.Invalidate("")
	w.WriteHeader(http.StatusNoContent)
	return nil
}
