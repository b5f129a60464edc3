package httpx

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/ariefcatur/go-digital-market.git/internal/identity"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// currentUser resolve identity dari auth service; (nil, ok) = anonymous.
func currentUser(ctx context.Context, idc *identity.Client, r *http.Request) *identity.User {
	u, err := idc.FromRequest(ctx, r)
	if err != nil {
		// Auth service bermasalah diperlakukan sebagai anonymous, bukan 500;
		// jalur token download tetap harus jalan tanpa session.
		log.Printf("identity lookup: %v", err)
		return nil
	}
	return u
}
