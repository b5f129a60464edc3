package payments

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Minimum charge unit processor: 100 minor units ($1.00).
const MinUnitAmount = 100

var hundred = decimal.NewFromInt(100)

// UnitAmount = round(price * 100), minor units.
func UnitAmount(price decimal.Decimal) int64 {
	return price.Mul(hundred).Round(0).IntPart()
}

type CheckoutLine struct {
	PriceID  string
	Quantity int64
}

type SessionInput struct {
	Lines      []CheckoutLine
	OrderID    string
	UserID     string
	SuccessURL string
	CancelURL  string
}

// Processor adalah remote catalog + checkout milik payment provider.
// Semua call adalah RPC jaringan yang bisa gagal/timeout.
type Processor interface {
	CreateCatalogProduct(ctx context.Context, name, description, localID string) (string, error)
	CreateCatalogPrice(ctx context.Context, remoteProductID string, unitAmount int64) (string, error)
	CreateCheckoutSession(ctx context.Context, in SessionInput) (url string, err error)
	PaymentIntentMetadata(ctx context.Context, intentID string) (map[string]string, error)
}

type StripeProcessor struct {
	sc            *client.API
	webhookSecret string
}

func NewStripe(apiKey, webhookSecret string) *StripeProcessor {
	return &StripeProcessor{
		sc:            client.New(apiKey, nil),
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProcessor) CreateCatalogProduct(ctx context.Context, name, description, localID string) (string, error) {
	params := &stripe.ProductParams{Name: stripe.String(name)}
	params.Context = ctx
	if description != "" {
		params.Description = stripe.String(description)
	}
	params.AddMetadata("productId", localID)

	p, err := s.sc.Products.New(params)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *StripeProcessor) CreateCatalogPrice(ctx context.Context, remoteProductID string, unitAmount int64) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(remoteProductID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx

	pr, err := s.sc.Prices.New(params)
	if err != nil {
		return "", err
	}
	return pr.ID, nil
}

func (s *StripeProcessor) CreateCheckoutSession(ctx context.Context, in SessionInput) (string, error) {
	lines := make([]*stripe.CheckoutSessionLineItemParams, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(l.PriceID),
			Quantity: stripe.Int64(l.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(in.SuccessURL),
		CancelURL:          stripe.String(in.CancelURL),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "paypal"}),
		LineItems:          lines,
		// Metadata di payment intent juga, supaya charge.refunded tetap
		// bisa diresolve lewat intent (two-hop).
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{
				metaOrderID: in.OrderID,
				metaUserID:  in.UserID,
			},
		},
	}
	params.Context = ctx
	// Round-trip korelasi: processor wajib echo metadata ini apa adanya
	// di event webhook.
	params.AddMetadata(metaOrderID, in.OrderID)
	params.AddMetadata(metaUserID, in.UserID)

	sess, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}

func (s *StripeProcessor) PaymentIntentMetadata(ctx context.Context, intentID string) (map[string]string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.sc.PaymentIntents.Get(intentID, params)
	if err != nil {
		return nil, err
	}
	return pi.Metadata, nil
}

// VerifyEvent memverifikasi signature atas raw body (bukan hasil
// re-serialize) sebelum parsing apa pun, lalu decode sekali di trust
// boundary menjadi union ProviderEvent.
func (s *StripeProcessor) VerifyEvent(payload []byte, sigHeader string) (ProviderEvent, error) {
	ev, err := webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return ProviderEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return DecodeEvent(ev)
}
