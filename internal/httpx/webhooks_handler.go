package httpx

import (
	"io"
	"net/http"

	"github.com/ariefcatur/go-digital-market.git/internal/payments"
	"github.com/go-chi/chi/v5"
)

type WebhooksHandler struct {
	Reconciler *payments.Reconciler
}

func (h *WebhooksHandler) Register(r *chi.Mux) {
	r.Post("/webhooks/payment", h.handlePayment)
}

func (h *WebhooksHandler) handlePayment(w http.ResponseWriter, r *http.Request) {
	// Raw body apa adanya: signature dihitung atas bytes ini, bukan hasil
	// re-serialize struct.
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	status := h.Reconciler.HandleEvent(r.Context(), body, r.Header.Get("Stripe-Signature"))
	w.WriteHeader(status)
}
