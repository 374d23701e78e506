package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/mkeller/folio/internal/guestbook"
)

// GuestbookHandler serves the guestbook read and write paths.
type GuestbookHandler struct {
	svc *guestbook.Service
}

// NewGuestbookHandler creates a GuestbookHandler.
func NewGuestbookHandler(svc *guestbook.Service) *GuestbookHandler {
	return &GuestbookHandler{svc: svc}
}

// List handles GET /api/v1/guestbook.
func (h *GuestbookHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	res, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, "guestbook", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Create handles POST /api/v1/guestbook.
func (h *GuestbookHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)

	var req guestbook.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	m, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, "guestbook", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Delete handles DELETE /api/v1/guestbook/{id} (admin only).
func (h *GuestbookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, "guestbook", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
