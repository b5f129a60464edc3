package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/blob"
	"github.com/ariefcatur/go-digital-market.git/internal/entitlement"
	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	"github.com/ariefcatur/go-digital-market.git/internal/tokens"
	"github.com/go-chi/chi/v5"
)

type DownloadsHandler struct {
	Gate     *entitlement.Gate
	Blob     *blob.Store
	Identity *identity.Client
	Codec    *tokens.Codec
}

func (h *DownloadsHandler) Register(r *chi.Mux) {
	r.Get("/download/{productID}", h.download)
	r.Post("/download/{productID}/token", h.mintToken)
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

func sanitizeFilename(v string) string {
	return unsafeFilename.ReplaceAllString(v, "-")
}

func (h *DownloadsHandler) download(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	user := currentUser(r.Context(), h.Identity, r)

	product, err := h.Gate.CanDownload(r.Context(), entitlement.Request{
		ProductID: productID,
		Token:     r.URL.Query().Get("token"),
		User:      user,
	})
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrUnauthorized):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, entitlement.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, entitlement.ErrNotFound):
			http.Error(w, "Not Found", http.StatusNotFound)
		default:
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	// Stream upstream boleh lebih lama dari timeout request biasa.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	upstream, err := h.Blob.Fetch(ctx, product.FileURL)
	if err != nil {
		http.Error(w, "Download unavailable", http.StatusBadGateway)
		return
	}
	defer upstream.Body.Close()

	filename := product.FileName
	if filename == "" {
		filename = product.Name + ".zip"
	}
	contentType := upstream.Header.Get("Content-Type")
	if contentType == "" {
		contentType = product.FileMime
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename=%q`, sanitizeFilename(filename)))
	w.Header().Set("Cache-Control", "no-store")
	if cl := upstream.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}

	// Re-stream tanpa buffer penuh di memori. Error setelah header terkirim
	// cuma memutus response; header tidak bisa ditulis ulang.
	if _, err := io.Copy(w, upstream.Body); err != nil {
		log.Printf("download stream product=%s: %v", product.ID, err)
	}
}

// mintToken menerbitkan download grant utk buyer yang sudah terbukti beli;
// balikan token null artinya fitur token tidak dikonfigurasi dan caller
// harus fallback ke session.
func (h *DownloadsHandler) mintToken(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	user := currentUser(r.Context(), h.Identity, r)
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	paid, err := h.Gate.Orders.HasPaidOrderForProduct(r.Context(), user.ID, productID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !paid {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var token *string
	if t := h.Codec.Mint(user.ID, productID, tokens.DefaultTTL); t != "" {
		token = &t
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}
