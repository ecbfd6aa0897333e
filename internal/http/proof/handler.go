package proof

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billed/internal/proof"
)

type Handler struct {
	storage *proof.Storage
}

func NewHandler(storage *proof.Storage) *Handler {
	return &Handler{storage: storage}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{key}", h.serve)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	f, err := h.storage.Open(chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, proof.ErrInvalidKey) || errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
