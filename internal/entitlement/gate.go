// Package entitlement memutuskan boleh-tidaknya seorang user mengunduh
// file sebuah product: lewat download grant bertanda tangan, atau lewat
// bukti pembelian (order paid).
package entitlement

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	"github.com/ariefcatur/go-digital-market.git/internal/identity"
	"github.com/ariefcatur/go-digital-market.git/internal/tokens"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type ProductGetter interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
}

type PurchaseChecker interface {
	HasPaidOrderForProduct(ctx context.Context, userID, productID string) (bool, error)
}

type Gate struct {
	Codec   *tokens.Codec
	Catalog ProductGetter
	Orders  PurchaseChecker
}

type Request struct {
	ProductID string
	Token     string         // opsional
	User      *identity.User // nil = anonymous
}

// CanDownload: jalur token dicoba dulu (tanpa session, tanpa lookup
// pembelian), baru jalur session+purchase. Entitlement apa pun tetap
// butuh file reference yang terisi.
func (g *Gate) CanDownload(ctx context.Context, req Request) (*catalog.Product, error) {
	tokenValid := false
	if req.Token != "" {
		p := g.Codec.Verify(req.Token)
		// Token utk product lain tidak memberi akses ke product ini.
		tokenValid = p != nil && p.ProductID == req.ProductID
	}

	if !tokenValid {
		if req.User == nil {
			return nil, ErrUnauthorized
		}
		paid, err := g.Orders.HasPaidOrderForProduct(ctx, req.User.ID, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, ErrForbidden
		}
	}

	product, err := g.Catalog.Get(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !product.HasFile() {
		return nil, ErrNotFound
	}
	return product, nil
}
