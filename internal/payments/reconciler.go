package payments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	kafkax "github.com/ariefcatur/go-digital-market.git/internal/kafka"
	"github.com/ariefcatur/go-digital-market.git/internal/mail"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/ariefcatur/go-digital-market.git/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type ReconcilerOrders interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	MarkPaid(ctx context.Context, orderID string) (bool, error)
	MarkUnpaid(ctx context.Context, orderID string) error
	ReceiptItems(ctx context.Context, orderID string) ([]orders.ReceiptItem, error)
}

type EventVerifier interface {
	VerifyEvent(payload []byte, sigHeader string) (ProviderEvent, error)
}

type IntentResolver interface {
	PaymentIntentMetadata(ctx context.Context, intentID string) (map[string]string, error)
}

// Deduper: fast path berbasis event id. Kebenaran tetap di CAS row order;
// ini cuma memotong kerja replay.
type Deduper interface {
	Seen(ctx context.Context, eventID string) bool
	Mark(ctx context.Context, eventID string)
}

type RedisDeduper struct {
	Redis   *redis.Client
	Service string
}

func (d *RedisDeduper) Seen(ctx context.Context, eventID string) bool {
	ok, _ := redisx.Exists(ctx, d.Redis, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID))
	return ok
}

func (d *RedisDeduper) Mark(ctx context.Context, eventID string) {
	_ = d.Redis.Set(ctx, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), "1", redisx.TTLDedup).Err()
}

// Reconciler mentransisikan paid-state order dari event processor yang
// delivery-nya at-least-once.
type Reconciler struct {
	Orders   ReconcilerOrders
	Verifier EventVerifier
	Intents  IntentResolver
	Sender   mail.ReceiptSender
	Dedup    Deduper // boleh nil

	// Satu producer per topic, boleh nil.
	ProducerPaid     EventPublisher
	ProducerFailed   EventPublisher
	ProducerRefunded EventPublisher

	Service string
}

// HandleEvent: verifikasi signature atas raw body duluan, baru parsing.
// Balikan http status: 4xx hanya untuk signature/parse failure; event yang
// dikenali-tapi-tidak-menarik tetap 2xx biar sender berhenti redeliver.
func (rc *Reconciler) HandleEvent(ctx context.Context, rawBody []byte, sigHeader string) int {
	ev, err := rc.Verifier.VerifyEvent(rawBody, sigHeader)
	if err != nil {
		log.Printf("webhook rejected: %v", err)
		return http.StatusBadRequest
	}

	if rc.Dedup != nil && ev.ID != "" && rc.Dedup.Seen(ctx, ev.ID) {
		return http.StatusOK
	}

	status := rc.apply(ctx, ev)

	if rc.Dedup != nil && ev.ID != "" && status == http.StatusOK {
		rc.Dedup.Mark(ctx, ev.ID)
	}
	return status
}

func (rc *Reconciler) apply(ctx context.Context, ev ProviderEvent) int {
	switch ev.Kind {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		return rc.applyPaid(ctx, ev.Ref)

	case EventAsyncPaymentFailed:
		// Overwrite idempoten ke false; tanpa short-circuit khusus.
		rc.applyUnpaid(ctx, ev.Ref, orders.EventOrderPaymentFailed)
		return http.StatusOK

	case EventChargeRefunded:
		ref := ev.Ref
		// Charge tidak selalu bawa metadata asli; hop kedua lewat
		// payment intent yang terhubung.
		if !ref.Complete() && ev.PaymentIntentID != "" && rc.Intents != nil {
			if md, err := rc.Intents.PaymentIntentMetadata(ctx, ev.PaymentIntentID); err == nil {
				ref = orderRefFromMetadata(md)
			} else {
				log.Printf("refund metadata lookup intent=%s: %v", ev.PaymentIntentID, err)
			}
		}
		rc.applyUnpaid(ctx, ref, orders.EventOrderRefunded)
		return http.StatusOK

	default:
		// Event type tak dikenal bukan error.
		return http.StatusOK
	}
}

func (rc *Reconciler) applyPaid(ctx context.Context, ref OrderRef) int {
	if !ref.Complete() {
		return http.StatusBadRequest
	}

	o, err := rc.Orders.Get(ctx, ref.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			return http.StatusNotFound
		}
		log.Printf("load order %s: %v", ref.OrderID, err)
		return http.StatusInternalServerError
	}
	// Buyer id di metadata harus cocok; mismatch diperlakukan not-found.
	if o.UserID != ref.UserID {
		return http.StatusNotFound
	}

	changed, err := rc.Orders.MarkPaid(ctx, o.ID)
	if err != nil {
		log.Printf("mark paid %s: %v", o.ID, err)
		return http.StatusInternalServerError
	}
	if !changed {
		// Replay: sudah paid, tanpa side effect lagi.
		return http.StatusOK
	}

	rc.publish(rc.ProducerPaid, orders.EventOrderPaid, o.ID,
		orders.OrderPaidPayload{OrderID: o.ID, UserID: o.UserID})

	// Receipt bukan bagian atomik dari transisi finansial: gagal kirim
	// tidak me-revert paid, cuma dilaporkan sebagai failure tersendiri.
	items, err := rc.Orders.ReceiptItems(ctx, o.ID)
	if err != nil {
		log.Printf("receipt items %s: %v", o.ID, err)
		return http.StatusInternalServerError
	}
	if err := rc.Sender.SendReceipt(ctx, o.UserEmail, o.ID, items); err != nil {
		log.Printf("receipt send %s: %v", o.ID, err)
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

func (rc *Reconciler) applyUnpaid(ctx context.Context, ref OrderRef, eventType string) {
	if !ref.Complete() {
		return
	}
	o, err := rc.Orders.Get(ctx, ref.OrderID)
	if err != nil || o.UserID != ref.UserID {
		return
	}
	if err := rc.Orders.MarkUnpaid(ctx, o.ID); err != nil {
		log.Printf("mark unpaid %s: %v", o.ID, err)
		return
	}
	switch eventType {
	case orders.EventOrderRefunded:
		rc.publish(rc.ProducerRefunded, eventType, o.ID,
			orders.OrderRefundedPayload{OrderID: o.ID})
	default:
		rc.publish(rc.ProducerFailed, eventType, o.ID,
			orders.OrderPaymentFailedPayload{OrderID: o.ID, Reason: "ASYNC_PAYMENT_FAILED"})
	}
}

func (rc *Reconciler) publish(prod EventPublisher, eventType, orderID string, payload any) {
	if prod == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      rc.Service,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	prod.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
