package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"user_email"`
	IsPaid    bool      `json:"is_paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem menyimpan snapshot harga saat order dibuat; perubahan harga
// katalog setelahnya tidak pernah mengubah order lama.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
}

// ItemSnapshot: input pembuatan order (product id + harga beku).
type ItemSnapshot struct {
	ProductID string
	Price     decimal.Decimal
}

// ReceiptItem: baris receipt email (join ke nama produk terkini).
type ReceiptItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
}
