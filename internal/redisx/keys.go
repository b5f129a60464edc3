package redisx

import "time"

const (
	// Cache paid-state order: order_status:{order_id} -> {"order_id":..,"is_paid":..}
	KeyOrderStatus = "order_status:%s"

	// Dedup webhook/event processing: dedup:{service}:{id} (id = event_id)
	KeyDedup = "dedup:%s:%s"

	// Shortcut checkout: idem:checkout:{user_id}:{order_id} -> order_id
	KeyCheckoutOrder = "idem:checkout:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
	TTLCheckout    = 24 * time.Hour
)
