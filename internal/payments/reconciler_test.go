package payments

import (
	"context"
	"net/http"
	"testing"

	"github.com/ariefcatur/go-digital-market.git/internal/orders"
)

func paidEvent(kind EventKind, orderID, userID string) ProviderEvent {
	return ProviderEvent{
		ID:   "evt_1",
		Kind: kind,
		Ref:  OrderRef{OrderID: orderID, UserID: userID},
	}
}

func newReconciler(store *fakeOrderStore, sender *fakeSender, v *fakeVerifier, proc *fakeProcessor) *Reconciler {
	return &Reconciler{
		Orders:   store,
		Verifier: v,
		Intents:  proc,
		Sender:   sender,
		Service:  "test",
	}
}

func storeWithOrder(id, userID string, paid bool) *fakeOrderStore {
	return &fakeOrderStore{
		orders: map[string]*orders.Order{
			id: {ID: id, UserID: userID, UserEmail: userID + "@example.com", IsPaid: paid},
		},
	}
}

func TestRejectsBadSignature(t *testing.T) {
	store := storeWithOrder("o1", "u1", false)
	sender := &fakeSender{}
	rc := newReconciler(store, sender, &fakeVerifier{err: ErrInvalidSignature}, &fakeProcessor{})

	status := rc.HandleEvent(context.Background(), []byte("{}"), "bad")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if store.orders["o1"].IsPaid || len(sender.sends) != 0 {
		t.Fatalf("side effects on rejected signature")
	}
}

func TestCompletedMarksPaidAndSendsReceiptOnce(t *testing.T) {
	store := storeWithOrder("o1", "u1", false)
	sender := &fakeSender{}
	v := &fakeVerifier{ev: paidEvent(EventCheckoutCompleted, "o1", "u1")}
	rc := newReconciler(store, sender, v, &fakeProcessor{})

	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !store.orders["o1"].IsPaid {
		t.Fatalf("order not marked paid")
	}
	if len(sender.sends) != 1 {
		t.Fatalf("receipt sends = %d, want 1", len(sender.sends))
	}

	// redelivery: tetap paid, tanpa receipt kedua
	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("replay status != 200")
	}
	if len(sender.sends) != 1 {
		t.Fatalf("receipt sends after replay = %d, want 1", len(sender.sends))
	}
}

func TestCompletedBuyerMismatchIsNotFound(t *testing.T) {
	store := storeWithOrder("o1", "u1", false)
	sender := &fakeSender{}
	v := &fakeVerifier{ev: paidEvent(EventCheckoutCompleted, "o1", "attacker")}
	rc := newReconciler(store, sender, v, &fakeProcessor{})

	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if store.orders["o1"].IsPaid {
		t.Fatalf("tampered metadata flipped paid flag")
	}
}

func TestCompletedMissingMetadata(t *testing.T) {
	rc := newReconciler(storeWithOrder("o1", "u1", false), &fakeSender{},
		&fakeVerifier{ev: ProviderEvent{ID: "evt_1", Kind: EventCheckoutCompleted}}, &fakeProcessor{})
	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestReceiptFailureKeepsPaidFlag(t *testing.T) {
	store := storeWithOrder("o1", "u1", false)
	sender := &fakeSender{fail: true}
	v := &fakeVerifier{ev: paidEvent(EventCheckoutCompleted, "o1", "u1")}
	rc := newReconciler(store, sender, v, &fakeProcessor{})

	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", status)
	}
	// kebenaran finansial menang atas notifikasi
	if !store.orders["o1"].IsPaid {
		t.Fatalf("paid flag reverted by receipt failure")
	}

	// redelivery setelah 500: guard already-paid, tanpa receipt ulang
	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("replay status != 200")
	}
	if len(sender.sends) != 1 {
		t.Fatalf("receipt sends = %d, want 1", len(sender.sends))
	}
}

func TestAsyncPaymentFailedResetsPaid(t *testing.T) {
	store := storeWithOrder("o1", "u1", true)
	v := &fakeVerifier{ev: paidEvent(EventAsyncPaymentFailed, "o1", "u1")}
	rc := newReconciler(store, &fakeSender{}, v, &fakeProcessor{})

	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if store.orders["o1"].IsPaid {
		t.Fatalf("paid flag not reset")
	}
}

func TestRefundResolvesMetadataViaIntent(t *testing.T) {
	store := storeWithOrder("o1", "u1", true)
	proc := &fakeProcessor{intentMeta: map[string]map[string]string{
		"pi_1": {"orderId": "o1", "userId": "u1"},
	}}
	// charge tanpa metadata, cuma bawa payment intent
	v := &fakeVerifier{ev: ProviderEvent{
		ID:              "evt_1",
		Kind:            EventChargeRefunded,
		PaymentIntentID: "pi_1",
	}}
	rc := newReconciler(store, &fakeSender{}, v, proc)

	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if store.orders["o1"].IsPaid {
		t.Fatalf("refund did not flip isPaid to false")
	}
}

func TestUnrecognizedEventIsAcknowledged(t *testing.T) {
	v := &fakeVerifier{ev: ProviderEvent{ID: "evt_1", Kind: EventUnrecognized, RawType: "invoice.created"}}
	rc := newReconciler(storeWithOrder("o1", "u1", false), &fakeSender{}, v, &fakeProcessor{})
	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusOK {
		t.Fatalf("status = %d, want 200 (unknown types are not errors)", status)
	}
}

func TestUnknownOrderIsNotFound(t *testing.T) {
	v := &fakeVerifier{ev: paidEvent(EventCheckoutCompleted, "missing", "u1")}
	rc := newReconciler(&fakeOrderStore{orders: map[string]*orders.Order{}}, &fakeSender{}, v, &fakeProcessor{})
	if status := rc.HandleEvent(context.Background(), nil, ""); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}
