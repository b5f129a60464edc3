package orders

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventProductApproved    = "ProductApproved"
	EventOrderCreated       = "OrderCreated"
	EventOrderPaid          = "OrderPaid"
	EventOrderPaymentFailed = "OrderPaymentFailed"
	EventOrderRefunded      = "OrderRefunded"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "market-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type ItemPrice struct {
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

type ProductApprovedPayload struct {
	ProductID     string `json:"product_id"`
	RemotePriceID string `json:"remote_price_id"`
}

type OrderCreatedPayload struct {
	OrderID string      `json:"order_id"`
	UserID  string      `json:"user_id"`
	Items   []ItemPrice `json:"items"`
}

type OrderPaidPayload struct {
	OrderID string `json:"order_id"`
	UserID  string `json:"user_id"`
}

type OrderPaymentFailedPayload struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason,omitempty"` // e.g., ASYNC_PAYMENT_FAILED
}

type OrderRefundedPayload struct {
	OrderID string `json:"order_id"`
}
