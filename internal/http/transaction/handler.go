package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/salesboard/internal/http/query"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
	now func() time.Time
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.list)
	r.Get("/statistics", h.statistics)
	r.Get("/bar-chart", h.barChart)
	r.Get("/pie-chart", h.pieChart)
	r.Get("/combined", h.combined)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	params, err := query.ListParams(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := h.svc.List(r.Context(), params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, toListResponse(page))
}

func (h *Handler) statistics(w http.ResponseWriter, r *http.Request) {
	rng, err := query.MonthRange(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.svc.Statistics(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, toStatisticsResponse(stats))
}

func (h *Handler) barChart(w http.ResponseWriter, r *http.Request) {
	rng, err := query.MonthRange(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	buckets, err := h.svc.PriceHistogram(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, toBucketResponses(buckets))
}

func (h *Handler) pieChart(w http.ResponseWriter, r *http.Request) {
	rng, err := query.MonthRange(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	categories, err := h.svc.CategoryBreakdown(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, toCategoryResponses(categories))
}

// combined computes all three month views and writes them as one document.
func (h *Handler) combined(w http.ResponseWriter, r *http.Request) {
	rng, err := query.MonthRange(r.URL.Query(), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.svc.Combined(r.Context(), rng)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, toCombinedResponse(c))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, query.ErrBadRequest) || errors.Is(err, transaction.ErrInvalidMonth) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
