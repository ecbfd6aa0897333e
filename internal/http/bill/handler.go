package bill

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/encoding"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/proof"
)

const maxUploadSize = 10 << 20

type Handler struct {
	svc    *bill.Service
	proofs *proof.Storage
}

func NewHandler(svc *bill.Service, proofs *proof.Storage) *Handler {
	return &Handler{svc: svc, proofs: proofs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
}

type createResponse struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	if email == "" {
		email = actor.Email
	}

	if email != actor.Email && !actor.Admin {
		http.Error(w, "cannot create a bill for another employee", http.StatusForbidden)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	name, err := encoding.FileName(header.Filename)
	if err != nil {
		http.Error(w, "invalid file name", http.StatusBadRequest)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	if !bill.IsAllowedProofExtension(filepath.Ext(name)) ||
		!bill.IsAllowedProofMIMEType(mimetype.Detect(content).String()) {
		http.Error(w, "proof must be a jpg, jpeg or png image", http.StatusUnsupportedMediaType)
		return
	}

	stored, err := h.proofs.Save(name, bytes.NewReader(content))
	if err != nil {
		slog.Error("failed to store proof", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	b, err := h.svc.Create(r.Context(), bill.CreateParams{Email: email, FileName: name, FileURL: stored.URL})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(createResponse{FileURL: b.FileURL, Key: b.ID}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFrom(r.Context())

	bills, err := h.svc.List(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(bills)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFrom(r.Context())

	b, err := h.svc.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(b); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.ActorFrom(r.Context())

	var patch bill.Bill
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.svc.Update(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(b); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bill.ErrNotFound):
		http.Error(w, "bill not found", http.StatusNotFound)
	case errors.Is(err, bill.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, bill.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, bill.ErrImmutableField), errors.Is(err, bill.ErrInvalidField):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, bill.ErrUnknownEmployee):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("bill request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
