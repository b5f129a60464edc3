// Package blob membungkus content-addressable blob store eksternal.
// Core selalu fetch lalu re-stream; buyer tidak pernah diarahkan langsung
// ke blob store.
package blob

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Upstream fetch gagal / non-200.
var ErrUnavailable = errors.New("download unavailable")

type Store struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Store {
	return &Store{
		BaseURL: baseURL,
		// Tanpa timeout total: body di-stream ke buyer, bisa lama.
		HTTP: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: 15 * time.Second},
		},
	}
}

// ResolveURL: file reference bisa sudah absolut (hasil upload langsung)
// atau relatif terhadap base URL blob store.
func (s *Store) ResolveURL(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(ref, "/")
}

// Fetch membuka stream upstream. Caller wajib Close body.
func (s *Store) Fetch(ctx context.Context, ref string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ResolveURL(ref), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, ErrUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, ErrUnavailable
	}
	return resp, nil
}
