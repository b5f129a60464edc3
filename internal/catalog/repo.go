package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProductNotFound = errors.New("product not found")
	// Seller edit lock: sekali APPROVED, field jualan tidak boleh diubah lagi.
	ErrProductLocked = errors.New("approved products cannot be edited")
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id, owner_id, name, description, price, category, approval_status,
	remote_product_id, remote_price_id, file_url, file_name, file_mime, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	var desc, rpid, rprid, furl, fname, fmime *string
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &desc, &p.Price, &p.Category, &p.Approval,
		&rpid, &rprid, &furl, &fname, &fmime, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Description = deref(desc)
	p.RemoteProductID = deref(rpid)
	p.RemotePriceID = deref(rprid)
	p.FileURL = deref(furl)
	p.FileName = deref(fname)
	p.FileMime = deref(fmime)
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *Repo) Create(ctx context.Context, ownerID string, in Input) (*Product, error) {
	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, owner_id, name, description, price, category, approval_status)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, 'PENDING')
		RETURNING `+productCols,
		id, ownerID, in.Name, in.Description, in.Price, in.Category)
	return scanProduct(row)
}

func (r *Repo) Get(ctx context.Context, id string) (*Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (r *Repo) GetForOwner(ctx context.Context, ownerID, id string) (*Product, error) {
	return scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE id=$1 AND owner_id=$2`, id, ownerID))
}

// Update: hanya selama belum APPROVED (one-way gate untuk seller).
func (r *Repo) Update(ctx context.Context, ownerID, id string, in Input) (*Product, error) {
	var status ApprovalStatus
	err := r.DB.QueryRow(ctx,
		`SELECT approval_status FROM products WHERE id=$1 AND owner_id=$2`, id, ownerID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if status == StatusApproved {
		return nil, ErrProductLocked
	}

	row := r.DB.QueryRow(ctx, `
		UPDATE products
		SET name=$3, description=NULLIF($4,''), price=$5, category=$6, updated_at=now()
		WHERE id=$1 AND owner_id=$2
		RETURNING `+productCols,
		id, ownerID, in.Name, in.Description, in.Price, in.Category)
	return scanProduct(row)
}

func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) ListPending(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE approval_status='PENDING' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

func (r *Repo) ListApproved(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+productCols+` FROM products WHERE approval_status='APPROVED' ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListPurchasable: filter approved + remote price id. Id yang tidak lolos
// filter di-drop diam-diam (stale cart item bukan error).
func (r *Repo) ListPurchasable(ctx context.Context, ids []string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE id = ANY($1) AND approval_status='APPROVED' AND remote_price_id IS NOT NULL`, ids)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// SetRemoteProduct: checkpoint partial sync (remote product sudah dibuat,
// price belum) supaya retry approval bisa resume tanpa bikin duplikat.
func (r *Repo) SetRemoteProduct(ctx context.Context, id, remoteProductID string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE products SET remote_product_id=$2, updated_at=now() WHERE id=$1`, id, remoteProductID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Approve: satu statement, jadi pembaca tidak pernah lihat APPROVED
// tanpa kedua remote id.
func (r *Repo) Approve(ctx context.Context, id, remoteProductID, remotePriceID string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET approval_status='APPROVED', remote_product_id=$2, remote_price_id=$3, updated_at=now()
		WHERE id=$1`, id, remoteProductID, remotePriceID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Deny: transisi status murni, tanpa efek remote; remote id yang sudah
// ada tidak pernah dihapus.
func (r *Repo) Deny(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE products SET approval_status='DENIED', updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *Repo) AttachFile(ctx context.Context, ownerID, id, url, filename, mime string) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products
		SET file_url=$3, file_name=NULLIF($4,''), file_mime=NULLIF($5,''), updated_at=now()
		WHERE id=$1 AND owner_id=$2`, id, ownerID, url, filename, mime)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
