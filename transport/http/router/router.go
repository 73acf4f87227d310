package router

import (
	"studio/internal/handlers/auth"
	"studio/internal/handlers/booking"
	"studio/internal/handlers/category"
	"studio/internal/handlers/dashboard"
	"studio/internal/handlers/notification"
	"studio/internal/handlers/offering"
	"studio/internal/handlers/payment"
	"studio/internal/handlers/portfolio"
	"studio/internal/handlers/user"
	"studio/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Category     category.Handler
	Service      offering.Handler
	Portfolio    portfolio.Handler
	Booking      booking.Handler
	Payment      payment.Handler
	Notification notification.Handler
	Dashboard    dashboard.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	App            middleware.AppMiddleware
}

// SetupRoutes mounts every endpoint under /v1. Authentication and the role check run for all of
// them and are skipped for the public endpoints listed in the permissions file.
func (r *Router) SetupRoutes(router chi.Router) {
	h := r.DomainHandlers

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey, r.AuthRole.Auth, r.AuthRole.RBAC)

		h.Auth.Router(routerGroup, r.App.AuthThrottle())
		h.User.Router(routerGroup)
		h.Category.Router(routerGroup)
		h.Service.Router(routerGroup)
		h.Portfolio.Router(routerGroup)
		h.Booking.Router(routerGroup)
		h.Payment.Router(routerGroup)

		routerGroup.Route("/admin", func(admin chi.Router) {
			h.Dashboard.AdminRouter(admin)
			h.Category.AdminRouter(admin)
			h.Service.AdminRouter(admin)
			h.Portfolio.AdminRouter(admin)
			h.Booking.AdminRouter(admin)
			h.Payment.AdminRouter(admin)
			h.User.AdminRouter(admin)
			h.Notification.AdminRouter(admin)
		})
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, app middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		App:            app,
	}
}
