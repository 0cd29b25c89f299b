package stripe

//go:generate go run go.uber.org/mock/mockgen -source=./stripe.go -destination=./mocks/stripe_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"villa/config"
	"villa/infras/otel"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/money"

	"github.com/rs/zerolog/log"
	stripeapi "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	EventPaymentSucceeded      = string(stripeapi.EventTypePaymentIntentSucceeded)
	EventPaymentFailed         = string(stripeapi.EventTypePaymentIntentPaymentFailed)
	EventPaymentCanceled       = string(stripeapi.EventTypePaymentIntentCanceled)
	EventPaymentRequiresAction = string(stripeapi.EventTypePaymentIntentRequiresAction)

	IntentStatusSucceeded = string(stripeapi.PaymentIntentStatusSucceeded)
	IntentStatusCanceled  = string(stripeapi.PaymentIntentStatusCanceled)

	MetadataBookingReference = "booking_reference"
	MetadataBookingID        = "booking_id"
	MetadataPaymentType      = "payment_type"
	MetadataGuestEmail       = "guest_email"

	defaultTolerance = 300 * time.Second
)

// Major unit bounds accepted per currency.
var (
	minAmounts = map[money.Currency]money.Amount{
		money.IDR: money.FromMajor(1000),
		money.USD: money.FromMajor(0.5),
		money.EUR: money.FromMajor(0.5),
		money.AUD: money.FromMajor(0.5),
	}
	maxAmounts = map[money.Currency]money.Amount{
		money.IDR: money.FromMajor(999999999),
		money.USD: money.FromMajor(999999),
		money.EUR: money.FromMajor(999999),
		money.AUD: money.FromMajor(999999),
	}
)

type IntentRequest struct {
	Amount         money.Amount
	Currency       money.Currency
	Description    string
	ReceiptEmail   string
	Metadata       map[string]string
	IdempotencyKey string
}

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       money.Amount
	Currency     money.Currency
	Metadata     map[string]string
}

// Event is a verified webhook delivery. Intent is set for payment intent events.
type Event struct {
	ID      string
	Type    string
	Created time.Time
	Intent  *Intent
}

type Gateway interface {
	// CreateIntent returns a nil intent without calling the processor when the amount is zero.
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
	CancelIntent(ctx context.Context, id string) error
	Refund(ctx context.Context, intentID string) error
	ConstructEvent(payload []byte, signature string) (Event, error)
}

type gatewayImpl struct {
	client        *stripeapi.Client
	webhookSecret string
	tolerance     time.Duration
	otel          otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Gateway {
	backends := stripeapi.NewBackends(&http.Client{
		Timeout: time.Duration(cfg.Stripe.TimeoutSeconds) * time.Second,
	})

	tolerance := time.Duration(cfg.Stripe.WebhookToleranceSeconds) * time.Second
	if tolerance <= 0 {
		tolerance = defaultTolerance
	}

	return &gatewayImpl{
		client:        stripeapi.NewClient(cfg.Stripe.SecretKey, stripeapi.WithBackends(backends)),
		webhookSecret: cfg.Stripe.WebhookSecret,
		tolerance:     tolerance,
		otel:          otel,
	}
}

func (g *gatewayImpl) CreateIntent(ctx context.Context, req IntentRequest) (res *Intent, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".stripe.CreateIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Amount <= 0 {
		log.Info().Str("amount", req.Amount.String()).Msg("skipping payment intent creation for zero amount")

		return nil, nil
	}

	if err = checkAmount(req.Amount, req.Currency); err != nil {
		return nil, err
	}

	params := &stripeapi.PaymentIntentCreateParams{
		Amount:       stripeapi.Int64(req.Amount.Int64()),
		Currency:     stripeapi.String(req.Currency.Lower()),
		Description:  stripeapi.String(req.Description),
		ReceiptEmail: stripeapi.String(req.ReceiptEmail),
		AutomaticPaymentMethods: &stripeapi.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripeapi.Bool(true),
		},
		CaptureMethod: stripeapi.String(string(stripeapi.PaymentIntentCaptureMethodAutomatic)),
	}

	for key, value := range req.Metadata {
		params.AddMetadata(key, value)
	}

	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	intent, err := g.client.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		log.Error().Err(err).Str("currency", string(req.Currency)).Str("amount", req.Amount.String()).Msg("failed to create payment intent")

		return nil, translate(err)
	}

	log.Info().Str("payment_intent_id", intent.ID).Str("status", string(intent.Status)).Msg("payment intent created")

	return fromIntent(intent), nil
}

func (g *gatewayImpl) RetrieveIntent(ctx context.Context, id string) (res *Intent, err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".stripe.RetrieveIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	intent, err := g.client.V1PaymentIntents.Retrieve(ctx, id, nil)
	if err != nil {
		log.Error().Err(err).Str("payment_intent_id", id).Msg("failed to retrieve payment intent")

		return nil, translate(err)
	}

	return fromIntent(intent), nil
}

func (g *gatewayImpl) CancelIntent(ctx context.Context, id string) (err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".stripe.CancelIntent")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = g.client.V1PaymentIntents.Cancel(ctx, id, nil); err != nil {
		log.Error().Err(err).Str("payment_intent_id", id).Msg("failed to cancel payment intent")

		return translate(err)
	}

	return nil
}

func (g *gatewayImpl) Refund(ctx context.Context, intentID string) (err error) {
	ctx, scope := g.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".stripe.Refund")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := &stripeapi.RefundCreateParams{PaymentIntent: stripeapi.String(intentID)}
	params.SetIdempotencyKey("refund-" + intentID)

	if _, err = g.client.V1Refunds.Create(ctx, params); err != nil {
		log.Error().Err(err).Str("payment_intent_id", intentID).Msg("failed to refund payment intent")

		return translate(err)
	}

	log.Info().Str("payment_intent_id", intentID).Msg("payment refunded")

	return nil
}

// ConstructEvent verifies the signature header and the timestamp window.
func (g *gatewayImpl) ConstructEvent(payload []byte, signature string) (Event, error) {
	if g.webhookSecret == "" {
		return Event{}, failure.InternalError(errors.New("webhook secret is not configured")) // nolint:wrapcheck
	}

	if signature == "" {
		return Event{}, failure.SignatureVerification("webhook signature missing") // nolint:wrapcheck
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                g.tolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, translateWebhook(err)
	}

	if event.ID == "" || event.Type == "" || event.Data == nil {
		return Event{}, failure.SignatureVerification("invalid webhook event structure") // nolint:wrapcheck
	}

	res := Event{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0),
	}

	if strings.HasPrefix(res.Type, "payment_intent.") {
		var intent stripeapi.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return Event{}, fmt.Errorf("failed to decode payment intent: %w", err)
		}

		res.Intent = fromIntent(&intent)
	}

	return res, nil
}

func checkAmount(amount money.Amount, currency money.Currency) error {
	minAmount, ok := minAmounts[currency]
	if !ok {
		return failure.BadRequestFromString(fmt.Sprintf("unsupported currency %q", currency)) // nolint:wrapcheck
	}

	maxAmount := maxAmounts[currency]
	if amount < minAmount || amount > maxAmount {
		return failure.BadRequestFromString(fmt.Sprintf("amount must be between %s and %s %s", minAmount, maxAmount, currency)) // nolint:wrapcheck
	}

	return nil
}

func fromIntent(intent *stripeapi.PaymentIntent) *Intent {
	return &Intent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       money.Amount(intent.Amount),
		Currency:     money.Currency(strings.ToUpper(string(intent.Currency))),
		Metadata:     intent.Metadata,
	}
}

// translate maps processor errors onto safe client messages.
func translate(err error) error {
	var stripeErr *stripeapi.Error
	if !errors.As(err, &stripeErr) {
		return failure.PaymentGateway(http.StatusBadGateway, "Network error during payment processing. Please try again.") // nolint:wrapcheck
	}

	switch stripeErr.Type {
	case stripeapi.ErrorTypeCard:
		msg := stripeErr.Msg
		if msg == "" {
			msg = "Payment method declined. Please try a different payment method."
		}

		return failure.PaymentGateway(http.StatusPaymentRequired, msg) // nolint:wrapcheck
	case stripeapi.ErrorTypeInvalidRequest:
		if stripeErr.HTTPStatusCode == http.StatusUnauthorized {
			return failure.PaymentGateway(http.StatusBadGateway, "Payment configuration error. Please contact support.") // nolint:wrapcheck
		}

		return failure.PaymentGateway(http.StatusBadGateway, "Invalid payment request. Please check your payment details.") // nolint:wrapcheck
	default:
		return failure.PaymentGateway(http.StatusBadGateway, "Payment processing temporarily unavailable. Please try again later.") // nolint:wrapcheck
	}
}

func translateWebhook(err error) error {
	switch {
	case errors.Is(err, webhook.ErrTooOld):
		return failure.Replay("webhook timestamp outside the tolerance window") // nolint:wrapcheck
	case errors.Is(err, webhook.ErrNotSigned):
		return failure.SignatureVerification("no signatures found") // nolint:wrapcheck
	case errors.Is(err, webhook.ErrInvalidHeader):
		return failure.SignatureVerification("invalid signature header") // nolint:wrapcheck
	case errors.Is(err, webhook.ErrNoValidSignature):
		return failure.SignatureVerification("invalid signature") // nolint:wrapcheck
	default:
		return failure.SignatureVerification(err.Error()) // nolint:wrapcheck
	}
}
