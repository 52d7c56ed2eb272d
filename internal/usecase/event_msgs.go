package usecase

// Published to the outbox and drained to RabbitMQ.
type OrderStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
	Status  string `json:"status"`
}

// Consumed from the payment gateway via Kafka.
type PaymentStatusChangedMsg struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"` // e.g. "SUCCESS"
}
