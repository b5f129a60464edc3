package payments

import (
	"encoding/json"
	"testing"

	stripe "github.com/stripe/stripe-go/v76"
)

func stripeEvent(t *testing.T, typ string, object any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return stripe.Event{
		ID:   "evt_1",
		Type: stripe.EventType(typ),
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestDecodeCheckoutCompleted(t *testing.T) {
	ev := stripeEvent(t, "checkout.session.completed", map[string]any{
		"metadata": map[string]string{"orderId": "o1", "userId": "u1"},
	})

	got, err := DecodeEvent(ev)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != EventCheckoutCompleted {
		t.Fatalf("kind = %d, want EventCheckoutCompleted", got.Kind)
	}
	if got.Ref.OrderID != "o1" || got.Ref.UserID != "u1" {
		t.Fatalf("ref = %+v", got.Ref)
	}
}

func TestDecodeChargeRefundedWithIntent(t *testing.T) {
	ev := stripeEvent(t, "charge.refunded", map[string]any{
		"payment_intent": "pi_123",
	})

	got, err := DecodeEvent(ev)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != EventChargeRefunded {
		t.Fatalf("kind = %d, want EventChargeRefunded", got.Kind)
	}
	if got.Ref.Complete() {
		t.Fatalf("ref should be incomplete without charge metadata")
	}
	if got.PaymentIntentID != "pi_123" {
		t.Fatalf("intent = %q, want pi_123", got.PaymentIntentID)
	}
}

func TestDecodeUnrecognizedKeepsRawType(t *testing.T) {
	ev := stripeEvent(t, "invoice.created", map[string]any{})

	got, err := DecodeEvent(ev)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Kind != EventUnrecognized {
		t.Fatalf("kind = %d, want EventUnrecognized", got.Kind)
	}
	if got.RawType != "invoice.created" {
		t.Fatalf("rawType = %q", got.RawType)
	}
}
