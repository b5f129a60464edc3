package payments

import (
	"context"
	"log"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	kafkax "github.com/ariefcatur/go-digital-market.git/internal/kafka"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type PurchasableLister interface {
	ListPurchasable(ctx context.Context, ids []string) ([]catalog.Product, error)
}

type OrderCreator interface {
	CreateWithItems(ctx context.Context, userID, userEmail string, items []orders.ItemSnapshot) (string, error)
}

type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, in SessionInput) (string, error)
}

// Checkout membuka pending order + hosted session di processor.
type Checkout struct {
	Catalog   PurchasableLister
	Orders    OrderCreator
	Processor SessionCreator
	Producer  EventPublisher // boleh nil
	ServerURL string
	Service   string
}

// URL kosong = processor gagal; order tetap tersimpan (is_paid=false)
// buat audit/recovery, caller harus anggap "coba lagi", bukan "batal".
type CheckoutResult struct {
	OrderID string
	URL     string
}

func (c *Checkout) CreateSession(ctx context.Context, buyer identity.User, productIDs []string, traceID string) (*CheckoutResult, error) {
	if len(productIDs) == 0 {
		return nil, ErrEmptySelection
	}

	// Product yang tidak approved / belum punya remote price di-drop
	// diam-diam; stale cart bukan partial failure.
	prods, err := c.Catalog.ListPurchasable(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	if len(prods) == 0 {
		return nil, ErrNoPurchasableItems
	}

	// Harga dibekukan saat ini juga; perubahan katalog setelahnya tidak
	// menyentuh order ini.
	items := make([]orders.ItemSnapshot, 0, len(prods))
	lines := make([]CheckoutLine, 0, len(prods))
	for _, p := range prods {
		items = append(items, orders.ItemSnapshot{ProductID: p.ID, Price: p.Price})
		lines = append(lines, CheckoutLine{PriceID: p.RemotePriceID, Quantity: 1})
	}

	orderID, err := c.Orders.CreateWithItems(ctx, buyer.ID, buyer.Email, items)
	if err != nil {
		return nil, err
	}
	c.publishCreated(orderID, buyer.ID, items, traceID)

	url, err := c.Processor.CreateCheckoutSession(ctx, SessionInput{
		Lines:      lines,
		OrderID:    orderID,
		UserID:     buyer.ID,
		SuccessURL: c.ServerURL + "/thank-you?orderId=" + orderID,
		CancelURL:  c.ServerURL + "/cart",
	})
	if err != nil {
		log.Printf("checkout session order=%s: %v", orderID, err)
		return &CheckoutResult{OrderID: orderID}, nil
	}

	return &CheckoutResult{OrderID: orderID, URL: url}, nil
}

func (c *Checkout) publishCreated(orderID, userID string, items []orders.ItemSnapshot, traceID string) {
	if c.Producer == nil {
		return
	}
	prices := make([]orders.ItemPrice, 0, len(items))
	for _, it := range items {
		prices = append(prices, orders.ItemPrice{ProductID: it.ProductID, Price: it.Price})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      c.Service,
		TraceID:       traceID,
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID: orderID,
			UserID:  userID,
			Items:   prices,
		}),
	}
	c.Producer.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
