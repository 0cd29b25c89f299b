package webhook_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"villa/infras/otel/mocks"
	paymentMocks "villa/internal/domains/payment/mocks"
	"villa/internal/handlers/webhook"
	"villa/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const payload = `{"id":"evt_1","type":"payment_intent.succeeded"}`

func newRouter(t *testing.T) (chi.Router, *paymentMocks.MockPayment) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := paymentMocks.NewMockPayment(ctrl)

	handler := webhook.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

func post(router chi.Router, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/stripe", strings.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_HandleStripe(t *testing.T) {
	t.Run("accepted with the raw body", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().HandleWebhook(gomock.Any(), []byte(payload), "t=1,v1=abc").Return(nil)

		rec := post(router, "t=1,v1=abc")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing signature", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := post(router, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"signature_verification_failed"`)
	})

	t.Run("replay", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.Replay("webhook timestamp outside tolerance"))

		rec := post(router, "t=1,v1=abc")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"code":"replay_detected"`)
	})

	t.Run("processing error asks for a retry", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(assert.AnError)

		rec := post(router, "t=1,v1=abc")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("delivery still in flight is not acknowledged", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(failure.Conflict("webhook event is already being processed"))

		rec := post(router, "t=1,v1=abc")

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
