package availability

import (
	"net/http"
	"villa/infras/otel"
	"villa/internal/domains/availability/model/dto"
	"villa/internal/domains/availability/service"
	"villa/shared/constant"
	"villa/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/blocked-dates", handler.GetBlockedDates)
}

// GetBlockedDates lists every unavailable day for the date picker.
// @Summary List blocked dates
// @Description Merges the external calendar, confirmed bookings and the uploaded fallback. Degraded sources are reported in warnings.
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Data[dto.BlockedDatesResponse]
// @Failure 500 {object} response.Error
// @Router /v1/blocked-dates [get]
func (handler *Handler) GetBlockedDates(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlockedDates")
	defer scope.End()

	availability, err := handler.service.GetBlockedRanges(ctx, service.PolicyPermissive)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blocked dates")

		response.WithError(writer, err)

		return
	}

	res := dto.BlockedDatesResponse{}
	res.FromModel(availability)

	response.WithJSON(writer, http.StatusOK, res)
}
