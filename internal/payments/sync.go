package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-digital-market.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-digital-market.git/internal/kafka"
	"github.com/ariefcatur/go-digital-market.git/internal/orders"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

type SyncStatus string

const (
	SyncApproved        SyncStatus = "approved"
	SyncAlreadyApproved SyncStatus = "already-approved"
	SyncDenied          SyncStatus = "denied"
)

type SyncCatalog interface {
	Get(ctx context.Context, id string) (*catalog.Product, error)
	SetRemoteProduct(ctx context.Context, id, remoteProductID string) error
	Approve(ctx context.Context, id, remoteProductID, remotePriceID string) error
	Deny(ctx context.Context, id string) error
}

type CatalogProcessor interface {
	CreateCatalogProduct(ctx context.Context, name, description, localID string) (string, error)
	CreateCatalogPrice(ctx context.Context, remoteProductID string, unitAmount int64) (string, error)
}

type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Sync mirror-kan product lokal ke remote catalog processor, tepat sekali
// per approval.
type Sync struct {
	Catalog   SyncCatalog
	Processor CatalogProcessor
	Producer  EventPublisher // boleh nil (mis. di test)
	Service   string
}

// Approve: remote product dulu, lalu price, lalu satu write atomik
// {APPROVED, kedua remote id}. Retry aman: short-circuit kalau sudah
// approved, resume dari remote product id yang sudah tersimpan.
func (s *Sync) Approve(ctx context.Context, productID string) (SyncStatus, error) {
	p, err := s.Catalog.Get(ctx, productID)
	if err != nil {
		return "", err
	}

	// Admin UI bisa di-retry / double-click; jangan bikin objek remote dobel.
	if p.Approval == catalog.StatusApproved && p.RemoteProductID != "" && p.RemotePriceID != "" {
		return SyncAlreadyApproved, nil
	}

	unit := UnitAmount(p.Price)
	if unit < MinUnitAmount {
		return "", fmt.Errorf("%w: price must be at least $1", ErrInvalidPrice)
	}

	remoteProductID := p.RemoteProductID
	if remoteProductID == "" {
		remoteProductID, err = s.Processor.CreateCatalogProduct(ctx, p.Name, p.Description, p.ID)
		if err != nil {
			return "", fmt.Errorf("%w: create product: %v", ErrUpstreamSync, err)
		}
		// Checkpoint: kalau create price di bawah gagal, retry berikutnya
		// resume dari sini. Status masih PENDING.
		if err := s.Catalog.SetRemoteProduct(ctx, p.ID, remoteProductID); err != nil {
			return "", err
		}
	}

	remotePriceID := p.RemotePriceID
	if remotePriceID == "" {
		remotePriceID, err = s.Processor.CreateCatalogPrice(ctx, remoteProductID, unit)
		if err != nil {
			return "", fmt.Errorf("%w: create price: %v", ErrUpstreamSync, err)
		}
	}

	if err := s.Catalog.Approve(ctx, p.ID, remoteProductID, remotePriceID); err != nil {
		return "", err
	}

	s.publishApproved(p.ID, remotePriceID)
	return SyncApproved, nil
}

// Deny: transisi status murni, tanpa efek remote.
func (s *Sync) Deny(ctx context.Context, productID string) (SyncStatus, error) {
	if _, err := s.Catalog.Get(ctx, productID); err != nil {
		return "", err
	}
	if err := s.Catalog.Deny(ctx, productID); err != nil {
		return "", err
	}
	return SyncDenied, nil
}

func (s *Sync) publishApproved(productID, remotePriceID string) {
	if s.Producer == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventProductApproved,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: productID,
		Payload: kafkax.MustMarshal(orders.ProductApprovedPayload{
			ProductID:     productID,
			RemotePriceID: remotePriceID,
		}),
	}
	s.Producer.Publish([]byte(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventProductApproved)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
