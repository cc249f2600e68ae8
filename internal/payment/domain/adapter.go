package domain

// WebhookAdapter verifies and parses a provider webhook payload into a
// normalized PaymentEvent. Implementations return ErrInvalidSignature
// when verification fails and ErrEventIgnored for event types the
// platform does not consume.
type WebhookAdapter interface {
	Provider() string
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
