package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	"github.com/ariefcatur/go-digital-market.git/internal/payments"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	Repo     *catalog.Repo
	Sync     *payments.Sync
	Identity *identity.Client
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Get("/admin/products/pending", h.listPending)
	r.Post("/admin/products/{id}/approve", h.approve)
	r.Post("/admin/products/{id}/deny", h.deny)
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) *identity.User {
	user := currentUser(r.Context(), h.Identity, r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return user
}

func (h *AdminHandler) listPending(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListPending(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *AdminHandler) approve(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	// Remote call ke processor bisa lambat; jangan pakai timeout pendek.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	status, err := h.Sync.Approve(ctx, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			writeError(w, http.StatusNotFound, "not found")
		case errors.Is(err, payments.ErrInvalidPrice):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, payments.ErrUpstreamSync):
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *AdminHandler) deny(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := h.Sync.Deny(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
