package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusDenied   ApprovalStatus = "DENIED"
)

// Approval boleh diulang (idempotent) dan deny sengaja tidak dijaga
// terhadap produk yang sudah APPROVED; lihat DESIGN.md.
var validNext = map[ApprovalStatus]map[ApprovalStatus]bool{
	StatusPending:  {StatusApproved: true, StatusDenied: true},
	StatusApproved: {StatusApproved: true, StatusDenied: true},
	StatusDenied:   {StatusApproved: true, StatusDenied: true},
}

func CanTransition(from, to ApprovalStatus) bool {
	return validNext[from][to]
}

type Category string

const (
	CategoryUIKits Category = "ui_kits"
	CategoryIcons  Category = "icons"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryUIKits, CategoryIcons:
		return true
	}
	return false
}

type Product struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"owner_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	Approval    ApprovalStatus  `json:"approval_status"`

	// Remote catalog (Stripe) ids; kosong = belum di-sync.
	RemoteProductID string `json:"remote_product_id,omitempty"`
	RemotePriceID   string `json:"remote_price_id,omitempty"`

	// File yang dijual; kosong sampai seller upload.
	FileURL  string `json:"file_url,omitempty"`
	FileName string `json:"file_name,omitempty"`
	FileMime string `json:"file_mime,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Purchasable: approved + punya price di remote catalog.
func (p *Product) Purchasable() bool {
	return p.Approval == StatusApproved && p.RemotePriceID != ""
}

func (p *Product) HasFile() bool { return p.FileURL != "" }
