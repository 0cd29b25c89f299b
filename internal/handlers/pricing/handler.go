package pricing

import (
	"net/http"
	"villa/infras/otel"
	"villa/internal/domains/pricing/model/dto"
	"villa/internal/domains/pricing/service"
	"villa/shared/constant"
	"villa/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Pricing
	otel    otel.Otel
}

func New(service service.Pricing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/pricing", handler.GetSeasonRules)
}

// GetSeasonRules lists the season pricing table.
// @Summary List season pricing rules
// @Tags Pricing
// @Produce json
// @Success 200 {object} response.Data[dto.GetSeasonRulesResponse]
// @Router /v1/pricing [get]
func (handler *Handler) GetSeasonRules(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSeasonRules")
	defer scope.End()

	rules, issues := handler.service.Rules(ctx)

	res := dto.GetSeasonRulesResponse{}
	res.FromModels(rules, issues)

	response.WithJSON(writer, http.StatusOK, res)
}
