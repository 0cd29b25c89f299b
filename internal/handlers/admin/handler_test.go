package admin_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"villa/config"
	jwtMocks "villa/infras/jwt/mocks"
	"villa/infras/otel/mocks"
	adminMocks "villa/internal/domains/admin/mocks"
	adminDto "villa/internal/domains/admin/model/dto"
	availabilityMocks "villa/internal/domains/availability/mocks"
	bookingMocks "villa/internal/domains/booking/mocks"
	bookingDto "villa/internal/domains/booking/model/dto"
	pricingMocks "villa/internal/domains/pricing/mocks"
	pricingModel "villa/internal/domains/pricing/model"
	"villa/internal/handlers/admin"
	"villa/shared/constant"
	gDto "villa/shared/dto"
	"villa/shared/failure"
	"villa/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	apiKey    = "internal-key"
	bookingID = "4f8f7d1e-2b7a-4c39-9a51-0b3c41c2f6a0"
)

type fixture struct {
	router       chi.Router
	admin        *adminMocks.MockAdmin
	booking      *bookingMocks.MockBooking
	pricing      *pricingMocks.MockPricing
	availability *availabilityMocks.MockAvailability
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	otel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	f := fixture{
		admin:        adminMocks.NewMockAdmin(ctrl),
		booking:      bookingMocks.NewMockBooking(ctrl),
		pricing:      pricingMocks.NewMockPricing(ctrl),
		availability: availabilityMocks.NewMockAvailability(ctrl),
	}

	auth := middleware.NewAuthRoleMiddleware(jwtMocks.NewMockJWT(ctrl), otel, nil, cfg)
	handler := admin.New(f.admin, f.booking, f.pricing, f.availability, auth, otel)

	f.router = chi.NewRouter()
	f.router.Route("/v1", handler.Router)

	return f
}

func (f fixture) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	return rec
}

func authorized(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderAPIKey, apiKey)
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	return req
}

func TestHandler_Login(t *testing.T) {
	f := newFixture(t)

	f.admin.EXPECT().Login(gomock.Any(), adminDto.LoginRequest{Username: "owner", Password: "secret"}).
		Return(adminDto.LoginResponse{AccessToken: "token", TokenType: "Bearer", ExpiresIn: 3600}, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(`{"username":"owner","password":"secret"}`))
	rec := f.serve(req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"token"`)
}

func TestHandler_ProtectedRoutesNeedCredentials(t *testing.T) {
	f := newFixture(t)

	rec := f.serve(httptest.NewRequest(http.MethodGet, "/v1/admin/bookings", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_GetBookings(t *testing.T) {
	t.Run("status filter and safe sort", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (bookingDto.GetBookingsResponse, error) {
				assert.Equal(t, constant.DefaultValueSortBy, params.SortBy)
				assert.Equal(t, 2, params.Page)
				require.Len(t, filter.Filters, 1)
				assert.Equal(t, "succeeded", filter.Filters[0].(gDto.Filter).Value)

				return bookingDto.GetBookingsResponse{TotalData: 1, TotalPage: 1}, nil
			})

		rec := f.serve(authorized(http.MethodGet, "/v1/admin/bookings?status=succeeded&page=2&sort_by=password", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total_data":1`)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(authorized(http.MethodGet, "/v1/admin/bookings?status=paid", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_CancelBooking(t *testing.T) {
	t.Run("canceled", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Cancel(gomock.Any(), bookingID).Return(nil)

		rec := f.serve(authorized(http.MethodPost, "/v1/admin/bookings/"+bookingID+"/cancel", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not pending", func(t *testing.T) {
		f := newFixture(t)

		f.booking.EXPECT().Cancel(gomock.Any(), bookingID).Return(failure.BadRequestFromString("only pending bookings can be canceled"))

		rec := f.serve(authorized(http.MethodPost, "/v1/admin/bookings/"+bookingID+"/cancel", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_AddPricingRule(t *testing.T) {
	t.Run("added", func(t *testing.T) {
		f := newFixture(t)

		f.pricing.EXPECT().AddRule(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, rule pricingModel.SeasonRule) error {
			assert.Equal(t, "Nyepi", rule.Label)
			assert.Equal(t, int64(3500000), rule.NightlyRate)

			return nil
		})

		body := `{"start":"2026-03-18","end":"2026-03-21","label":"Nyepi","nightly_rate":3500000,"min_nights":3}`
		rec := f.serve(authorized(http.MethodPost, "/v1/admin/pricing-rules", body))

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("overlap", func(t *testing.T) {
		f := newFixture(t)

		f.pricing.EXPECT().AddRule(gomock.Any(), gomock.Any()).Return(failure.Conflict("season rule overlaps an existing rule"))

		body := `{"start":"2026-03-18","end":"2026-03-21","label":"Nyepi","nightly_rate":3500000,"min_nights":3}`
		rec := f.serve(authorized(http.MethodPost, "/v1/admin/pricing-rules", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func multipartRequest(t *testing.T, contentType string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="fallback.ics"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)

	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/calendar/upload", &body)
	req.Header.Set(constant.RequestHeaderAPIKey, apiKey)
	req.Header.Set(constant.RequestHeaderContentType, writer.FormDataContentType())

	return req
}

func TestHandler_UploadCalendar(t *testing.T) {
	calendar := []byte("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nEND:VCALENDAR\r\n")

	t.Run("stored", func(t *testing.T) {
		f := newFixture(t)

		f.availability.EXPECT().UploadFallback(gomock.Any(), calendar).Return(3, nil)

		rec := f.serve(multipartRequest(t, "text/calendar", calendar))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"events":3`)
	})

	t.Run("wrong type", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(multipartRequest(t, "image/png", calendar))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body is cut off", func(t *testing.T) {
		f := newFixture(t)

		oversized := bytes.Repeat([]byte("X"), 4<<20)

		rec := f.serve(multipartRequest(t, "text/calendar", oversized))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart", func(t *testing.T) {
		f := newFixture(t)

		rec := f.serve(authorized(http.MethodPost, "/v1/admin/calendar/upload", "{}"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ExportCalendar(t *testing.T) {
	f := newFixture(t)

	f.booking.EXPECT().ExportCalendar(gomock.Any()).Return("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil)

	rec := f.serve(authorized(http.MethodGet, "/v1/admin/calendar/export.ics", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
}
