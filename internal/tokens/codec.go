// Package tokens berisi codec download grant: capability string compact,
// HMAC-signed, time-limited, untuk akses download tanpa session aktif.
package tokens

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

const DefaultTTL = 2 * time.Hour

// Payload tidak dienkripsi, hanya ditandatangani; jangan taruh rahasia di sini.
type Payload struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Exp       int64  `json:"exp"` // epoch millis
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	var b []byte
	if secret != "" {
		b = []byte(secret)
	}
	return &Codec{secret: b, now: time.Now}
}

func (c *Codec) sign(payload []byte) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(payload)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Mint mengembalikan "" saat secret tidak dikonfigurasi: penerbitan token
// adalah fitur opsional, caller wajib fallback ke auth session.
func (c *Codec) Mint(userID, productID string, ttl time.Duration) string {
	if len(c.secret) == 0 {
		return ""
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	payload, err := json.Marshal(Payload{
		UserID:    userID,
		ProductID: productID,
		Exp:       c.now().Add(ttl).UnixMilli(),
	})
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(payload) + "." + c.sign(payload)
}

// Verify collapse semua mode gagal (malformed, signature salah, field kurang,
// expired) ke nil yang sama, supaya scheme ini tidak jadi oracle.
func (c *Codec) Verify(token string) *Payload {
	if len(c.secret) == 0 || token == "" {
		return nil
	}
	part, sig, ok := strings.Cut(token, ".")
	if !ok || part == "" || sig == "" {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(part)
	if err != nil {
		return nil
	}
	if !hmac.Equal([]byte(sig), []byte(c.sign(payload))) {
		return nil
	}
	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil
	}
	if p.UserID == "" || p.ProductID == "" {
		return nil
	}
	if c.now().UnixMilli() > p.Exp {
		return nil
	}
	return &p
}
