package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/ariefcatur/go-digital-market.git/internal/payments"
	"github.com/ariefcatur/go-digital-market.git/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type CreateCheckoutReq struct {
	ProductIDs []string `json:"product_ids"`
}

type CreateCheckoutResp struct {
	OrderID string  `json:"order_id"`
	URL     *string `json:"url"` // null = processor gagal, coba lagi
}

type CheckoutHandler struct {
	Checkout *payments.Checkout
	Orders   *orders.Repo
	Redis    *redis.Client
	Identity *identity.Client
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.createCheckout)
	r.Get("/orders/{orderID}/status", h.orderStatus)
}

func (h *CheckoutHandler) createCheckout(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context(), h.Identity, r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateCheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	res, err := h.Checkout.CreateSession(ctx, *user, req.ProductIDs, r.Header.Get("X-Request-Id"))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrEmptySelection),
			errors.Is(err, payments.ErrNoPurchasableItems):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// Shortcut + cache status awal (DB tetap jadi kebenaran)
	idemKey := fmt.Sprintf(redisx.KeyCheckoutOrder, user.ID, res.OrderID)
	_ = h.Redis.Set(ctx, idemKey, res.OrderID, redisx.TTLCheckout).Err()
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, res.OrderID)
	_ = h.Redis.Set(ctx, statusKey,
		fmt.Sprintf(`{"order_id":%q,"is_paid":false}`, res.OrderID), redisx.TTLStatusCache).Err()

	resp := CreateCheckoutResp{OrderID: res.OrderID}
	if res.URL != "" {
		resp.URL = &res.URL
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CheckoutHandler) orderStatus(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r.Context(), h.Identity, r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	orderID := chi.URLParam(r, "orderID")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache; hanya buat pemilik order (dicek via idem key checkout)
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	owned, _ := redisx.Exists(ctx, h.Redis, fmt.Sprintf(redisx.KeyCheckoutOrder, user.ID, orderID))
	if owned {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeJSON(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	// 2) fallback DB
	o, err := h.Orders.Get(ctx, orderID)
	if err != nil || o.UserID != user.ID {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	body := map[string]any{"order_id": o.ID, "is_paid": o.IsPaid}
	b, _ := json.Marshal(body)
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
