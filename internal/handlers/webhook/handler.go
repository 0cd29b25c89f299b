package webhook

import (
	"io"
	"net/http"
	"villa/infras/otel"
	"villa/internal/domains/payment/service"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxPayloadBytes matches the processor's own limit on event size.
const maxPayloadBytes = 65536

type Handler struct {
	service service.Payment
	otel    otel.Otel
}

func New(service service.Payment, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/webhooks/stripe", handler.HandleStripe)
}

// HandleStripe verifies and applies a payment processor event. The body must reach the verifier unmodified.
// @Summary Stripe webhook
// @Tags Webhook
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Processor signature"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/webhooks/stripe [post]
func (handler *Handler) HandleStripe(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HandleStripe")
	defer scope.End()

	payload, err := io.ReadAll(http.MaxBytesReader(writer, request.Body, maxPayloadBytes))
	if err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("failed to read webhook payload")

		response.WithError(writer, failure.BadRequestFromString("unreadable webhook payload"))

		return
	}

	signature := request.Header.Get(constant.RequestHeaderStripeSignature)
	if signature == "" {
		err := failure.SignatureVerification("missing signature header")
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.service.HandleWebhook(ctx, payload, signature); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "received")
}
