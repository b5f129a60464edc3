package tokens

import (
	"strings"
	"testing"
	"time"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	c := NewCodec("secret")
	tok := c.Mint("u1", "p1", time.Hour)
	if tok == "" {
		t.Fatalf("mint returned empty token")
	}

	p := c.Verify(tok)
	if p == nil {
		t.Fatalf("verify returned nil for fresh token")
	}
	if p.UserID != "u1" || p.ProductID != "p1" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	c := NewCodec("secret")
	tok := c.Mint("u1", "p1", time.Hour)

	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if p := c.Verify(tok); p != nil {
		t.Fatalf("expired token verified: %+v", p)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	c := NewCodec("secret")
	tok := c.Mint("u1", "p1", time.Hour)

	// ubah satu karakter di mana saja -> nil
	for _, i := range []int{0, len(tok) / 2, len(tok) - 1} {
		b := []byte(tok)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if p := c.Verify(string(b)); p != nil {
			t.Fatalf("tampered token at %d verified", i)
		}
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok := NewCodec("secret-a").Mint("u1", "p1", time.Hour)
	if p := NewCodec("secret-b").Verify(tok); p != nil {
		t.Fatalf("token verified under different secret")
	}
}

func TestVerifyMalformed(t *testing.T) {
	c := NewCodec("secret")
	for _, tok := range []string{"", "no-dot", ".", "a.", ".b", "!!!.???"} {
		if p := c.Verify(tok); p != nil {
			t.Fatalf("malformed token %q verified", tok)
		}
	}
}

func TestMintWithoutSecretReturnsEmpty(t *testing.T) {
	c := NewCodec("")
	if tok := c.Mint("u1", "p1", time.Hour); tok != "" {
		t.Fatalf("mint without secret = %q, want empty", tok)
	}
	if p := c.Verify("whatever.sig"); p != nil {
		t.Fatalf("verify without secret returned payload")
	}
}

func TestTokenShape(t *testing.T) {
	c := NewCodec("secret")
	tok := c.Mint("u1", "p1", time.Hour)
	if strings.Count(tok, ".") != 1 {
		t.Fatalf("token = %q, want exactly one dot", tok)
	}
}
