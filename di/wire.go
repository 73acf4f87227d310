//go:build wireinject
// +build wireinject

package di

import (
	"studio/config"
	"studio/infras/jwt"
	"studio/infras/kafka"
	"studio/infras/otel"
	"studio/infras/postgres"
	"studio/infras/redis"
	"studio/infras/s3"
	"studio/permissions"
	"studio/shared/cache"
	"studio/shared/reference"
	gRepo "studio/shared/repository"
	"studio/transport/http"
	"studio/transport/http/middleware"
	"studio/transport/http/router"
	"studio/transport/scheduler"

	authService "studio/internal/domains/auth/service"
	bookingRepository "studio/internal/domains/booking/repository"
	bookingService "studio/internal/domains/booking/service"
	categoryRepository "studio/internal/domains/category/repository"
	categoryService "studio/internal/domains/category/service"
	dashboardRepository "studio/internal/domains/dashboard/repository"
	dashboardService "studio/internal/domains/dashboard/service"
	notificationRepository "studio/internal/domains/notification/repository"
	notificationService "studio/internal/domains/notification/service"
	offeringRepository "studio/internal/domains/offering/repository"
	offeringService "studio/internal/domains/offering/service"
	paymentRepository "studio/internal/domains/payment/repository"
	paymentService "studio/internal/domains/payment/service"
	portfolioRepository "studio/internal/domains/portfolio/repository"
	portfolioService "studio/internal/domains/portfolio/service"
	userRepository "studio/internal/domains/user/repository"
	userService "studio/internal/domains/user/service"

	authHandler "studio/internal/handlers/auth"
	bookingHandler "studio/internal/handlers/booking"
	categoryHandler "studio/internal/handlers/category"
	dashboardHandler "studio/internal/handlers/dashboard"
	notificationHandler "studio/internal/handlers/notification"
	offeringHandler "studio/internal/handlers/offering"
	paymentHandler "studio/internal/handlers/payment"
	portfolioHandler "studio/internal/handlers/portfolio"
	userHandler "studio/internal/handlers/user"

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
	jwt.NewDenylist,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
	reference.New,
)

var repositories = wire.NewSet(
	userRepository.New,
	categoryRepository.New,
	offeringRepository.New,
	portfolioRepository.New,
	bookingRepository.New,
	bookingRepository.NewAddon,
	paymentRepository.New,
	notificationRepository.New,
	dashboardRepository.New,
)

var services = wire.NewSet(
	authService.New,
	userService.New,
	categoryService.New,
	offeringService.New,
	portfolioService.New,
	bookingService.New,
	paymentService.New,
	notificationService.New,
	dashboardService.New,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	categoryHandler.New,
	offeringHandler.New,
	portfolioHandler.New,
	bookingHandler.New,
	paymentHandler.New,
	notificationHandler.New,
	dashboardHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		services,
		routing,
		http.New,
		scheduler.New,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}

func InitializeSeeder() userService.User {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		cache.NewRedisCache,
		userRepository.New,
		userService.New,
	)

	return nil
}
