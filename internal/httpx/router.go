package httpx

import (
	"net/http"

	"aqsit-be/internal/logger"
	"aqsit-be/internal/middleware"
	"aqsit-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Users         *UserHandler
	Basket        *BasketHandler
	Projects      *ProjectHandler
	Orders        *OrderHandler
	Samples       *SampleHandler
	Pricing       *PricingHandler
	Notifications *NotificationHandler
}

// requireAuth rejects requests that carry no authenticated user.
func requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.GetUserIDFromContext(r.Context()); !ok {
			Fail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects non-admin users.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !utils.IsAdmin(r.Context()) {
			Fail(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		OK(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	r.Post("/auth/register", h.Users.Register)
	r.Post("/auth/login", h.Users.Login)

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/me", h.Users.Me)
		r.Get("/me/shipping-address", h.Users.GetShippingAddress)
		r.Put("/me/shipping-address", h.Users.SaveShippingAddress)

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", h.Basket.List)
			r.Post("/", h.Basket.Add)
			r.Get("/{id}", h.Basket.Get)
			r.Delete("/{id}", h.Basket.Remove)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Projects.List)
			r.Post("/", h.Projects.Create)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.ListMine)
			r.Post("/", h.Orders.CreateOrderSet)
			r.Get("/{id}", h.Orders.GetDetail)
			r.Post("/{id}/place", h.Orders.Place)
			r.Get("/{id}/transactions", h.Orders.ListTransactions)
		})

		r.Route("/order-sets/{setID}", func(r chi.Router) {
			r.Get("/orders", h.Orders.ListBySet)
			r.Put("/shipping-address", h.Orders.SetShippingAddress)
			r.Put("/billing-address", h.Orders.SetBillingAddress)
			r.Post("/billing-same-as-shipping", h.Orders.BillingSameAsShipping)
		})

		r.Route("/sample-orders", func(r chi.Router) {
			r.Get("/", h.Samples.ListMine)
			r.Post("/", h.Samples.Create)
			r.Get("/{id}", h.Samples.GetDetail)
			r.Post("/{id}/extension", h.Samples.RequestExtension)
		})

		r.Route("/pricing", func(r chi.Router) {
			r.Get("/", h.Pricing.ListMine)
			r.Post("/", h.Pricing.Ask)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.Notifications.List)
			r.Post("/{id}/read", h.Notifications.MarkRead)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)

		r.Post("/users/{id}/verify", h.Users.Verify)

		r.Post("/orders/{id}/quote", h.Orders.Quote)
		r.Post("/orders/{id}/deliver", h.Orders.MarkDelivered)
		r.Post("/orders/cancel", h.Orders.Cancel)

		r.Post("/sample-orders/{id}/status", h.Samples.UpdateStatus)
		r.Post("/sample-orders/{id}/extension/approve", h.Samples.ApproveExtension)
		r.Post("/sample-orders/{id}/extension/reject", h.Samples.RejectExtension)

		r.Get("/pricing/pending", h.Pricing.ListPending)
		r.Post("/pricing/{id}/send", h.Pricing.Send)
	})

	return r
}
