package entities

// Message is an inbound chat message, kept only long enough to build a reply.
type Message struct {
	ChatID     int64
	SenderID   int64
	SenderName string // display name (Telegram first_name)
	Text       string
	Platform   string // e.g. "telegram"
}

// WebhookEvent holds the envelope fields of a Paystack event that are worth logging.
// The payload itself is opaque and never acted on.
type WebhookEvent struct {
	Event     string
	Reference string
	Status    string
	Amount    float64
	Currency  string
}
