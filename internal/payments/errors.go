package payments

import "errors"

var (
	// Harga di bawah minimum charge unit processor (atau tidak positif).
	ErrInvalidPrice = errors.New("invalid product price")
	// Remote call ke processor gagal; approval batal utuh, status tetap PENDING.
	ErrUpstreamSync = errors.New("upstream sync failed")
	// Checkout tanpa product id sama sekali.
	ErrEmptySelection = errors.New("empty selection")
	// Setelah filter approved+priced tidak ada yang tersisa.
	ErrNoPurchasableItems = errors.New("no purchasable items")
	// Signature webhook tidak valid; body tidak pernah dipercaya unsigned.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
