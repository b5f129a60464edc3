package payments

import (
	"encoding/json"
	"fmt"

	stripe "github.com/stripe/stripe-go/v76"
)

// Metadata keys yang di-round-trip lewat processor.
const (
	metaOrderID = "orderId"
	metaUserID  = "userId"
)

type EventKind int

const (
	EventUnrecognized EventKind = iota
	EventCheckoutCompleted
	EventAsyncPaymentSucceeded
	EventAsyncPaymentFailed
	EventChargeRefunded
)

// OrderRef: korelasi order lokal dari metadata yang di-echo processor.
type OrderRef struct {
	OrderID string
	UserID  string
}

func (r OrderRef) Complete() bool { return r.OrderID != "" && r.UserID != "" }

func orderRefFromMetadata(md map[string]string) OrderRef {
	return OrderRef{OrderID: md[metaOrderID], UserID: md[metaUserID]}
}

// ProviderEvent: union atas event kind yang dikenal; kind lain masuk
// EventUnrecognized dengan RawType asli (tetap di-ack 2xx).
type ProviderEvent struct {
	ID      string
	Kind    EventKind
	RawType string

	// Ref dari metadata event langsung; charge.refunded boleh kosong
	// di sini dan diresolve lewat PaymentIntentID.
	Ref             OrderRef
	PaymentIntentID string
}

// DecodeEvent men-decode payload bertipe duck dari processor sekali,
// tepat di trust boundary.
func DecodeEvent(ev stripe.Event) (ProviderEvent, error) {
	out := ProviderEvent{ID: ev.ID, RawType: string(ev.Type), Kind: EventUnrecognized}

	switch ev.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
			return out, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Ref = orderRefFromMetadata(cs.Metadata)
		switch ev.Type {
		case "checkout.session.completed":
			out.Kind = EventCheckoutCompleted
		case "checkout.session.async_payment_succeeded":
			out.Kind = EventAsyncPaymentSucceeded
		default:
			out.Kind = EventAsyncPaymentFailed
		}

	case "charge.refunded":
		var ch stripe.Charge
		if err := json.Unmarshal(ev.Data.Raw, &ch); err != nil {
			return out, fmt.Errorf("decode charge: %w", err)
		}
		out.Kind = EventChargeRefunded
		out.Ref = orderRefFromMetadata(ch.Metadata)
		if ch.PaymentIntent != nil {
			out.PaymentIntentID = ch.PaymentIntent.ID
		}
	}

	return out, nil
}
