package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"villa/config"
	"villa/infras/otel/mocks"
	"villa/shared/constant"
	"villa/internal/handlers/admin"
	"villa/transport/http/middleware"
	"villa/transport/http/router"

	"github.com/stretchr/testify/assert"
)

func newServer() *HTTP {
	cfg := &config.Config{}
	otel := mocks.NewOtel()

	auth := middleware.NewAuthRoleMiddleware(nil, otel, nil, cfg)
	handlers := router.DomainHandlers{
		Admin: admin.New(nil, nil, nil, nil, auth, otel),
	}

	return New(cfg, router.New(handlers), middleware.NewAppMiddleware(otel, cfg, nil), nil, nil, nil)
}

func TestHTTP_Health(t *testing.T) {
	server := newServer()

	tests := []struct {
		name     string
		state    ServerState
		wantCode int
		wantBody string
	}{
		{name: "ready", state: ServerStateReady, wantCode: http.StatusOK, wantBody: `{"message":"OK"}`},
		{name: "grace period", state: ServerStateInGracePeriod, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER PREPARING TO SHUT DOWN"}`},
		{name: "cleanup period", state: ServerStateInCleanupPeriod, wantCode: http.StatusServiceUnavailable, wantBody: `{"message":"SERVER UNHEALTHY"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.setup()
			server.state.Store(int32(tt.state))

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestHTTP_Routing(t *testing.T) {
	server := newServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/admin/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Missing authorization header","code":"unauthorized"}`, rec.Body.String())

	assert.Equal(t, ServerStateReady, server.State())
}

func TestHTTP_SwaggerOutsideProduction(t *testing.T) {
	server := newServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swaggerDocPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Villa Pura Booking API")
	assert.Contains(t, rec.Body.String(), "/v1/bookings/calculate")
}

func TestHTTP_NoSwaggerInProduction(t *testing.T) {
	server := newServer()
	server.Config.Server.Env = constant.ServerEnvProduction

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, swaggerDocPath, nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
