package orders

const (
	TopicProductApproved    = "product.approved"
	TopicOrderCreated       = "order.created"
	TopicOrderPaid          = "order.paid"
	TopicOrderPaymentFailed = "order.payment.failed"
	TopicOrderRefunded      = "order.refunded"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
