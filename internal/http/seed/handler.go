package seed

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/salesboard/internal/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

const maxUploadSize = 32 << 20

type Handler struct {
	loader *seed.Loader
}

func NewHandler(loader *seed.Loader) *Handler {
	return &Handler{loader: loader}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.reload)
	r.Post("/upload", h.upload)
}

type seedResponse struct {
	Imported int `json:"imported"`
}

// reload replaces the stored data with a fresh copy of the upstream document.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	n, err := h.loader.Load(r.Context())
	if err != nil {
		slog.Error("failed to reload seed data", "error", err)
		http.Error(w, "failed to load seed data", http.StatusBadGateway)

		return
	}

	writeCreated(w, n)
}

// upload replaces the stored data with a document sent as the "file" form field.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	n, err := h.loader.Import(r.Context(), file, header.Filename)
	if err != nil {
		if errors.Is(err, seed.ErrInvalidDocument) || errors.Is(err, transaction.ErrInvalidTransaction) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		slog.Error("failed to import seed data", "file", header.Filename, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeCreated(w, n)
}

func writeCreated(w http.ResponseWriter, n int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(seedResponse{Imported: n}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
