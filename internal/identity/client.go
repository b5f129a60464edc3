// Package identity membungkus auth service eksternal sebagai black box:
// diberi credential request, balik user terverifikasi atau nil.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const RoleAdmin = "ADMIN"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// FromRequest meneruskan credential (cookie/authorization) ke auth service.
// (nil, nil) artinya anonymous, bukan error.
func (c *Client) FromRequest(ctx context.Context, r *http.Request) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/session", nil)
	if err != nil {
		return nil, err
	}
	if v := r.Header.Get("Cookie"); v != "" {
		req.Header.Set("Cookie", v)
	}
	if v := r.Header.Get("Authorization"); v != "" {
		req.Header.Set("Authorization", v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service: status %d", resp.StatusCode)
	}

	var body struct {
		User *User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if body.User == nil || body.User.ID == "" {
		return nil, nil
	}
	return body.User, nil
}
