package admin

import (
	"errors"
	"io"
	"net/http"
	"slices"
	"villa/infras/otel"
	"villa/internal/domains/admin/model/dto"
	"villa/internal/domains/admin/service"
	availabilityDto "villa/internal/domains/availability/model/dto"
	availabilityService "villa/internal/domains/availability/service"
	bookingModel "villa/internal/domains/booking/model"
	bookingService "villa/internal/domains/booking/service"
	pricingDto "villa/internal/domains/pricing/model/dto"
	pricingService "villa/internal/domains/pricing/service"
	"villa/shared/constant"
	gDto "villa/shared/dto"
	"villa/shared/failure"
	"villa/shared/validator"
	"villa/transport/http/middleware"
	"villa/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	exportFilename = "villa-bookings.ics"

	// maxUploadBytes leaves room for multipart framing around a 2 MB calendar.
	maxUploadBytes = 3 << 20
)

var (
	sortableFields = []string{bookingModel.FieldCheckInDate, bookingModel.FieldCreatedAt, bookingModel.FieldTotal}
	statusFilters  = []string{
		string(bookingModel.StatusPending),
		string(bookingModel.StatusSucceeded),
		string(bookingModel.StatusFailed),
		string(bookingModel.StatusCanceled),
	}
)

type Handler struct {
	service      service.Admin
	booking      bookingService.Booking
	pricing      pricingService.Pricing
	availability availabilityService.Availability
	auth         middleware.AuthRole
	otel         otel.Otel
}

func New(
	service service.Admin,
	booking bookingService.Booking,
	pricing pricingService.Pricing,
	availability availabilityService.Availability,
	auth middleware.AuthRole,
	otel otel.Otel,
) Handler {
	return Handler{
		service:      service,
		booking:      booking,
		pricing:      pricing,
		availability: availability,
		auth:         auth,
		otel:         otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/admin", func(routerGroup chi.Router) {
		routerGroup.Post("/login", handler.Login)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(handler.auth.APIKey, handler.auth.Auth, handler.auth.RBAC)

			protected.Get("/bookings", handler.GetBookings)
			protected.Post("/bookings/{id}/cancel", handler.CancelBooking)
			protected.Post("/pricing-rules", handler.AddPricingRule)
			protected.Post("/calendar/upload", handler.UploadCalendar)
			protected.Get("/calendar/export.ics", handler.ExportCalendar)
		})
	})
}

// Login exchanges the admin credentials for a bearer token.
// @Summary Admin login
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/admin/login [post]
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.Login")
	defer scope.End()

	req := dto.LoginRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Login(ctx, req)
	if err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Admin logged in")

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookings lists bookings for the owner dashboard.
// @Summary List bookings
// @Tags Admin
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by payment status (pending, succeeded, failed, canceled)"
// @Success 200 {object} response.Data[any]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/admin/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	if !slices.Contains(sortableFields, queryParams.SortBy) {
		queryParams.SortBy = constant.DefaultValueSortBy
	}

	if queryParams.SortDir == constant.Empty {
		queryParams.SortDir = constant.DefaultValueSortDir
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if status := request.URL.Query().Get("status"); status != constant.Empty {
		if !slices.Contains(statusFilters, status) {
			response.WithError(writer, failure.BadRequestFromString("status must be one of pending succeeded failed canceled"))

			return
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    bookingModel.FieldPaymentStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    bookingModel.TableName,
		})
	}

	res, err := handler.booking.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// CancelBooking cancels a pending booking and its payment intent.
// @Summary Cancel booking
// @Tags Admin
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.CancelBooking")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := validator.ValidateVar(id, "required,uuid"); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	if err := handler.booking.Cancel(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Booking " + id + " canceled by " + user)

	response.WithMessage(writer, http.StatusOK, "Booking canceled successfully")
}

// AddPricingRule adds a season to the pricing table.
// @Summary Add season pricing rule
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body pricingDto.AddSeasonRuleRequest true "Season Rule"
// @Success 201 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/admin/pricing-rules [post]
// @Security BearerAuth
func (handler *Handler) AddPricingRule(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.AddPricingRule")
	defer scope.End()

	req := pricingDto.AddSeasonRuleRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	rule, err := req.ToModel()
	if err != nil {
		response.WithError(writer, failure.BadRequest(err))

		return
	}

	if err := handler.pricing.AddRule(ctx, rule); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Str("label", req.Label).Msg("failed to add season rule")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Season rule added successfully")
}

// UploadCalendar stores the fallback calendar used when the external feed is down.
// @Summary Upload fallback calendar
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Param file formData file true "iCalendar file"
// @Success 201 {object} response.Data[availabilityDto.UploadCalendarResponse]
// @Failure 400 {object} response.Error
// @Router /v1/admin/calendar/upload [post]
// @Security BearerAuth
func (handler *Handler) UploadCalendar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.UploadCalendar")
	defer scope.End()

	request.Body = http.MaxBytesReader(writer, request.Body, maxUploadBytes)

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WithError(writer, failure.BadRequestFromString("upload must not exceed 2 MB"))

			return
		}

		response.WithError(writer, failure.BadRequestFromString("request must be multipart/form-data"))

		return
	}

	file, header, err := request.FormFile(constant.FormFile)
	if err != nil {
		response.WithError(writer, failure.BadRequestFromString("file is required"))

		return
	}
	defer file.Close()

	req := availabilityDto.UploadCalendarRequest{File: *header}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)

		response.WithError(writer, err)

		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read uploaded calendar")

		response.WithError(writer, failure.BadRequestFromString("file could not be read"))

		return
	}

	events, err := handler.availability.UploadFallback(ctx, data)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("filename", header.Filename).Msg("failed to upload fallback calendar")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusCreated, availabilityDto.UploadCalendarResponse{Events: events})
}

// ExportCalendar returns confirmed upcoming stays as an iCalendar file.
// @Summary Export bookings calendar
// @Tags Admin
// @Produce plain
// @Success 200 {string} string "iCalendar document"
// @Failure 500 {object} response.Error
// @Router /v1/admin/calendar/export.ics [get]
// @Security BearerAuth
func (handler *Handler) ExportCalendar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".admin.ExportCalendar")
	defer scope.End()

	body, err := handler.booking.ExportCalendar(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export calendar")

		response.WithError(writer, err)

		return
	}

	response.WithCalendar(writer, exportFilename, body)
}
