package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

// CreateWithItems: order + seluruh item dalam satu tx, jadi pembaca tidak
// pernah lihat order tanpa item.
func (r *Repo) CreateWithItems(ctx context.Context, userID, userEmail string, items []ItemSnapshot) (orderID string, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID = uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, user_email, is_paid)
		VALUES ($1, $2, $3, FALSE)`, orderID, userID, userEmail)
	if err != nil {
		return "", err
	}

	for _, it := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, price)
			VALUES ($1, $2, $3)`, orderID, it.ProductID, it.Price)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return orderID, nil
}

func (r *Repo) Get(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, user_email, is_paid, created_at, updated_at
		FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.UserID, &o.UserEmail, &o.IsPaid, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaid: compare-and-swap satu statement di row order, supaya dua
// delivery webhook yang balapan tidak dua-duanya lolos guard "belum paid"
// (dan receipt cuma terkirim sekali).
func (r *Repo) MarkPaid(ctx context.Context, orderID string) (changed bool, err error) {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET is_paid=TRUE, updated_at=now()
		WHERE id=$1 AND is_paid=FALSE`, orderID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// MarkUnpaid: overwrite idempoten (async payment failed / charge refunded).
func (r *Repo) MarkUnpaid(ctx context.Context, orderID string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET is_paid=FALSE, updated_at=now() WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// HasPaidOrderForProduct: bukti pembelian untuk entitlement download.
func (r *Repo) HasPaidOrderForProduct(ctx context.Context, userID, productID string) (bool, error) {
	var ok bool
	err := r.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			WHERE o.user_id=$1 AND o.is_paid=TRUE AND oi.product_id=$2
		)`, userID, productID).Scan(&ok)
	return ok, err
}

func (r *Repo) Items(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, price
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ReceiptItems: baris receipt (harga snapshot + nama produk terkini).
func (r *Repo) ReceiptItems(ctx context.Context, orderID string) ([]ReceiptItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT oi.product_id, p.name, oi.price
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id=$1 ORDER BY oi.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReceiptItem
	for rows.Next() {
		var it ReceiptItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
