//go:build wireinject
// +build wireinject

package di

import (
	"villa/config"
	"villa/infras/exchangerate"
	"villa/infras/ical"
	"villa/infras/jwt"
	"villa/infras/kafka"
	"villa/infras/mailer"
	"villa/infras/otel"
	"villa/infras/postgres"
	"villa/infras/redis"
	"villa/infras/s3"
	"villa/infras/stripe"
	adminService "villa/internal/domains/admin/service"
	availabilityService "villa/internal/domains/availability/service"
	bookingRepository "villa/internal/domains/booking/repository"
	bookingService "villa/internal/domains/booking/service"
	exchangeService "villa/internal/domains/exchange/service"
	notificationService "villa/internal/domains/notification/service"
	paymentService "villa/internal/domains/payment/service"
	pricingModel "villa/internal/domains/pricing/model"
	pricingService "villa/internal/domains/pricing/service"
	reconcileService "villa/internal/domains/reconcile/service"
	adminHandler "villa/internal/handlers/admin"
	availabilityHandler "villa/internal/handlers/availability"
	bookingHandler "villa/internal/handlers/booking"
	pricingHandler "villa/internal/handlers/pricing"
	webhookHandler "villa/internal/handlers/webhook"
	"villa/permissions"
	"villa/shared/cache"
	"villa/transport/http"
	"villa/transport/http/middleware"
	"villa/transport/http/router"
	"villa/transport/scheduler"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	stripe.New,
	mailer.New,
	ical.New,
	exchangerate.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var pricingDomain = wire.NewSet(
	exchangeService.New,
	pricingModel.DefaultSeasonTable,
	pricingService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	wire.Bind(new(availabilityService.BookedStays), new(bookingRepository.Booking)),
	availabilityService.New,
	bookingService.New,
)

var paymentDomain = wire.NewSet(
	paymentService.New,
	notificationService.New,
	reconcileService.New,
)

var adminDomain = wire.NewSet(
	adminService.New,
)

var domains = wire.NewSet(
	pricingDomain,
	bookingDomain,
	paymentDomain,
	adminDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	availabilityHandler.New,
	pricingHandler.New,
	webhookHandler.New,
	adminHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		scheduler.New,
		http.New,
	)

	return &http.HTTP{}, nil
}
