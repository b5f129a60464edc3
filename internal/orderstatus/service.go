// Package orderstatus memproyeksikan event paid-state ke cache status
// order di Redis, supaya endpoint poll tidak selalu mampir DB.
package orderstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkax "github.com/ariefcatur/go-digital-market.git/internal/kafka"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/ariefcatur/go-digital-market.git/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

type statusDoc struct {
	OrderID   string    `json:"order_id"`
	IsPaid    bool      `json:"is_paid"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HandleOrderEvent: dipasang sebagai handler consumer utk topic
// order.paid / order.payment.failed / order.refunded.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}

	var isPaid bool
	switch env.EventType {
	case orders.EventOrderPaid:
		isPaid = true
	case orders.EventOrderPaymentFailed, orders.EventOrderRefunded:
		isPaid = false
	default:
		return nil // ignore
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	orderID := env.CorrelationID
	if orderID == "" {
		// fallback: ambil dari payload
		p, err := kafkax.UnwrapPayload[orders.OrderPaidPayload](env.Payload)
		if err != nil {
			return err
		}
		orderID = p.OrderID
	}
	if orderID == "" {
		return nil
	}

	doc, err := json.Marshal(statusDoc{OrderID: orderID, IsPaid: isPaid, UpdatedAt: env.OccurredAt})
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	return s.Redis.Set(ctx, key, doc, redisx.TTLStatusCache).Err()
}
