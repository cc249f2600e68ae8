package stripe

import (
	"encoding/json"
	"time"

	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"

	paymentdomain "github.com/HWellness/Hive-Wellness-Portal-sub013/internal/payment/domain"
)

// WebhookAdapter verifies Stripe webhook signatures and normalizes the
// events the platform consumes.
type WebhookAdapter struct {
	secret string
	log    *zap.Logger
}

// NewWebhookAdapter builds a Stripe webhook adapter.
func NewWebhookAdapter(secret string, log *zap.Logger) *WebhookAdapter {
	return &WebhookAdapter{
		secret: secret,
		log:    log.Named("processor.stripe.webhook"),
	}
}

// Provider returns the provider identifier recorded on event rows.
func (a *WebhookAdapter) Provider() string { return "stripe" }

// ParseWebhook verifies the signature and maps the event into platform
// terms. Events the platform does not consume return ErrEventIgnored.
func (a *WebhookAdapter) ParseWebhook(payload []byte, signature string) (*paymentdomain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, a.secret)
	if err != nil {
		return nil, paymentdomain.ErrInvalidSignature
	}

	switch event.Type {
	case "payment_intent.succeeded":
		return a.mapPaymentIntent(event)
	case "charge.refunded":
		return a.mapChargeRefunded(event)
	default:
		a.log.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil, paymentdomain.ErrEventIgnored
	}
}

func (a *WebhookAdapter) mapPaymentIntent(event stripeapi.Event) (*paymentdomain.PaymentEvent, error) {
	var intent stripeapi.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, err
	}
	return &paymentdomain.PaymentEvent{
		ProviderEventID: event.ID,
		Type:            paymentdomain.EventPaymentSucceeded,
		PaymentIntentID: intent.ID,
		Amount:          intent.AmountReceived,
		Currency:        string(intent.Currency),
		OccurredAt:      time.Unix(event.Created, 0).UTC(),
		Raw:             rawObject(event),
	}, nil
}

func (a *WebhookAdapter) mapChargeRefunded(event stripeapi.Event) (*paymentdomain.PaymentEvent, error) {
	var charge stripeapi.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, err
	}
	out := &paymentdomain.PaymentEvent{
		ProviderEventID: event.ID,
		Type:            paymentdomain.EventChargeRefunded,
		Amount:          charge.AmountRefunded,
		Currency:        string(charge.Currency),
		OccurredAt:      time.Unix(event.Created, 0).UTC(),
		Raw:             rawObject(event),
	}
	if charge.PaymentIntent != nil {
		out.PaymentIntentID = charge.PaymentIntent.ID
	}
	if charge.Refunds != nil && len(charge.Refunds.Data) > 0 {
		out.RefundID = charge.Refunds.Data[0].ID
	}
	return out, nil
}

func rawObject(event stripeapi.Event) map[string]any {
	var raw map[string]any
	if err := json.Unmarshal(event.Data.Raw, &raw); err != nil {
		return map[string]any{}
	}
	return raw
}
