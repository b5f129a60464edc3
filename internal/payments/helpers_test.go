package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	kafkago "github.com/segmentio/kafka-go"
)

// ---- catalog fake ----

type fakeCatalog struct {
	products map[string]*catalog.Product

	setRemoteCalls int
	approveCalls   int
	denyCalls      int
}

func newFakeCatalog(ps ...*catalog.Product) *fakeCatalog {
	m := make(map[string]*catalog.Product, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m}
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) SetRemoteProduct(ctx context.Context, id, remoteProductID string) error {
	f.setRemoteCalls++
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.RemoteProductID = remoteProductID
	return nil
}

func (f *fakeCatalog) Approve(ctx context.Context, id, remoteProductID, remotePriceID string) error {
	f.approveCalls++
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.Approval = catalog.StatusApproved
	p.RemoteProductID = remoteProductID
	p.RemotePriceID = remotePriceID
	return nil
}

func (f *fakeCatalog) Deny(ctx context.Context, id string) error {
	f.denyCalls++
	p, ok := f.products[id]
	if !ok {
		return catalog.ErrProductNotFound
	}
	p.Approval = catalog.StatusDenied
	return nil
}

func (f *fakeCatalog) ListPurchasable(ctx context.Context, ids []string) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok && p.Purchasable() {
			out = append(out, *p)
		}
	}
	return out, nil
}

// ---- processor fake ----

type fakeProcessor struct {
	productCalls int
	priceCalls   int
	sessionCalls int

	failProduct bool
	failPrice   bool
	failSession bool

	lastSession SessionInput
	intentMeta  map[string]map[string]string
}

func (f *fakeProcessor) CreateCatalogProduct(ctx context.Context, name, description, localID string) (string, error) {
	f.productCalls++
	if f.failProduct {
		return "", errors.New("stripe down")
	}
	return fmt.Sprintf("prod_%d", f.productCalls), nil
}

func (f *fakeProcessor) CreateCatalogPrice(ctx context.Context, remoteProductID string, unitAmount int64) (string, error) {
	f.priceCalls++
	if f.failPrice {
		return "", errors.New("stripe down")
	}
	return fmt.Sprintf("price_%d", f.priceCalls), nil
}

func (f *fakeProcessor) CreateCheckoutSession(ctx context.Context, in SessionInput) (string, error) {
	f.sessionCalls++
	f.lastSession = in
	if f.failSession {
		return "", errors.New("stripe down")
	}
	return "https://checkout.example/s/" + in.OrderID, nil
}

func (f *fakeProcessor) PaymentIntentMetadata(ctx context.Context, intentID string) (map[string]string, error) {
	md, ok := f.intentMeta[intentID]
	if !ok {
		return nil, errors.New("no such intent")
	}
	return md, nil
}

// ---- orders fake ----

type fakeOrderStore struct {
	orders map[string]*orders.Order
	items  map[string][]orders.ReceiptItem

	created       []orders.ItemSnapshot
	markPaidCalls int
}

func (f *fakeOrderStore) CreateWithItems(ctx context.Context, userID, userEmail string, items []orders.ItemSnapshot) (string, error) {
	f.created = append([]orders.ItemSnapshot(nil), items...)
	id := fmt.Sprintf("order_%d", len(f.orders)+1)
	if f.orders == nil {
		f.orders = map[string]*orders.Order{}
	}
	f.orders[id] = &orders.Order{ID: id, UserID: userID, UserEmail: userEmail}
	return id, nil
}

func (f *fakeOrderStore) Get(ctx context.Context, orderID string) (*orders.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, orders.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	f.markPaidCalls++
	o, ok := f.orders[orderID]
	if !ok {
		return false, nil
	}
	if o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	return true, nil
}

func (f *fakeOrderStore) MarkUnpaid(ctx context.Context, orderID string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return orders.ErrOrderNotFound
	}
	o.IsPaid = false
	return nil
}

func (f *fakeOrderStore) ReceiptItems(ctx context.Context, orderID string) ([]orders.ReceiptItem, error) {
	return f.items[orderID], nil
}

// ---- sender / publisher / verifier fakes ----

type fakeSender struct {
	sends []string // order ids
	fail  bool
}

func (f *fakeSender) SendReceipt(ctx context.Context, toEmail, orderID string, items []orders.ReceiptItem) error {
	f.sends = append(f.sends, orderID)
	if f.fail {
		return errors.New("resend down")
	}
	return nil
}

type fakePublisher struct{ published int }

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) { f.published++ }

type fakeVerifier struct {
	ev  ProviderEvent
	err error
}

func (f *fakeVerifier) VerifyEvent(payload []byte, sigHeader string) (ProviderEvent, error) {
	return f.ev, f.err
}
