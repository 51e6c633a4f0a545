package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"StockInsight/internal/collector"
	"StockInsight/internal/indicator"
	"StockInsight/internal/render"
	"StockInsight/internal/scheduler"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analyzer  scheduler.Analyzer
	refresher *scheduler.Refresher
	log       *logrus.Logger
}

// NewHandler creates a new Handler. refresher may be nil when no refresh
// driver runs; the watch routes then answer 503.
func NewHandler(analyzer scheduler.Analyzer, refresher *scheduler.Refresher, log *logrus.Logger) *Handler {
	return &Handler{analyzer: analyzer, refresher: refresher, log: log}
}

// GetInsights handles GET /insights/{symbol}?period=&format=
func (h *Handler) GetInsights(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]
	period := r.URL.Query().Get("period")

	ins, err := h.analyzer.Collect(r.Context(), symbol, period)
	if err != nil {
		h.respondError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "table":
		respondText(w, render.Table(ins))
	case "panel":
		respondText(w, render.Panel(ins))
	default:
		respondJSON(w, http.StatusOK, ins)
	}
}

// GetWatch handles GET /watch
func (h *Handler) GetWatch(w http.ResponseWriter, r *http.Request) {
	if !h.hasRefresher(w) {
		return
	}
	respondJSON(w, http.StatusOK, h.refresher.Status())
}

// SetWatch handles POST /watch
func (h *Handler) SetWatch(w http.ResponseWriter, r *http.Request) {
	if !h.hasRefresher(w) {
		return
	}
	var req scheduler.Target
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if err := h.refresher.Watch(req.Symbol, req.Period); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.refresher.Status())
}

// DeleteWatch handles DELETE /watch
func (h *Handler) DeleteWatch(w http.ResponseWriter, r *http.Request) {
	if !h.hasRefresher(w) {
		return
	}
	h.refresher.Unwatch()
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.hasRefresher(w) {
		return
	}
	if err := h.refresher.RefreshNow(r.Context()); err != nil {
		h.respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, h.refresher.Status())
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) hasRefresher(w http.ResponseWriter) bool {
	if h.refresher == nil {
		respondJSON(w, http.StatusServiceUnavailable, errorBody{Error: "refresh driver is not running"})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).Warn("request failed")
	}
	respondJSON(w, status, errorBody{Error: err.Error()})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, collector.ErrUnknownPeriod),
		errors.Is(err, collector.ErrEmptySymbol),
		errors.Is(err, indicator.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, scheduler.ErrNoTarget):
		return http.StatusConflict
	case errors.Is(err, indicator.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
