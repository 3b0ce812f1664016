package broker

// Ledger event types published on the ledger topic and accepted on the inbound topic.
const (
	EventItemsSold       = "ItemsSold"
	EventItemsRestocked  = "ItemsRestocked"
	EventRevenueRecorded = "RevenueRecorded"
	EventOrderCreated    = "OrderCreated"
	EventOrderReceived   = "OrderReceived"
	EventCheckout        = "CheckoutCompleted"
)
