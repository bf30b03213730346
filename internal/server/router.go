package server

import (
	"context"
	"net/http"
	"time"

	analytics_api "ms-events/internal/analytics/api"
	"ms-events/internal/auth"
	"ms-events/internal/auth/auth_api"
	"ms-events/internal/banner/banner_api"
	"ms-events/internal/category/category_api"
	"ms-events/internal/events/event_api"
	"ms-events/internal/logger"
	"ms-events/internal/media/media_api"
	"ms-events/internal/metrics"
	"ms-events/internal/middleware"
	"ms-events/internal/models"
	"ms-events/internal/order/order_api"
	"ms-events/internal/tickets/ticket_api"
	"ms-events/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups every HTTP surface the router mounts.
type Handlers struct {
	Auth        *auth_api.Handler
	Category    *category_api.Handler
	Event       *event_api.Handler
	Ticket      *ticket_api.Handler
	Banner      *banner_api.Handler
	Media       *media_api.Handler
	Order       *order_api.Handler
	OrderStream *order_api.SSEHandler
	Analytics   *analytics_api.Handler
}

type Options struct {
	Tokens      *auth.TokenManager
	Revoker     auth.TokenRevoker
	Logger      *logger.Logger
	CORSOrigins []string
	// Health reports whether backing stores are reachable; nil means always healthy.
	Health func(ctx context.Context) error
}

func NewRouter(h Handlers, opts Options) http.Handler {
	log := opts.Logger
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.NotFound(middleware.NotFound)
	r.MethodNotAllowed(middleware.MethodNotAllowed)

	r.Get("/healthz", healthz(opts.Health))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authenticated := auth.Middleware(opts.Tokens, opts.Revoker, log)
	admin := auth.RequireRoles(models.RoleAdmin)
	member := auth.RequireRoles(models.RoleMember)
	anyRole := auth.RequireRoles(models.RoleAdmin, models.RoleMember)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
			r.Post("/activation", h.Auth.Activation)
			r.Post("/refresh", h.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", h.Auth.Me)
				r.Post("/logout", h.Auth.Logout)
				r.Put("/update-password", h.Auth.UpdatePassword)
				r.Put("/update-profile", h.Auth.UpdateProfile)
			})
		})

		catalog(r, "/category", authenticated, admin, catalogRoutes{
			findAll: h.Category.FindAll, findOne: h.Category.FindOne,
			create: h.Category.Create, update: h.Category.Update, remove: h.Category.Remove,
		})
		catalog(r, "/events", authenticated, admin, catalogRoutes{
			findAll: h.Event.FindAll, findOne: h.Event.FindOne,
			create: h.Event.Create, update: h.Event.Update, remove: h.Event.Remove,
			extra: func(r chi.Router) { r.Get("/{slug}/slug", h.Event.FindOneBySlug) },
		})
		catalog(r, "/tickets", authenticated, admin, catalogRoutes{
			findAll: h.Ticket.FindAll, findOne: h.Ticket.FindOne,
			create: h.Ticket.Create, update: h.Ticket.Update, remove: h.Ticket.Remove,
			extra: func(r chi.Router) { r.Get("/{eventId}/events", h.Ticket.FindAllByEvent) },
		})
		catalog(r, "/banners", authenticated, admin, catalogRoutes{
			findAll: h.Banner.FindAll, findOne: h.Banner.FindOne,
			create: h.Banner.Create, update: h.Banner.Update, remove: h.Banner.Remove,
		})

		r.Route("/media", func(r chi.Router) {
			r.Use(authenticated, anyRole)
			r.Post("/upload-single", h.Media.UploadSingle)
			r.Post("/upload-multiple", h.Media.UploadMultiple)
			r.Delete("/remove", h.Media.Remove)
		})

		// Stripe authenticates with its signature header, not a bearer token.
		r.Post("/orders/webhook/stripe", h.Order.StripeWebhook)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.With(member).Get("/orders-history", h.Order.FindAllByMember)

			r.Route("/orders", func(r chi.Router) {
				r.With(member).Post("/", h.Order.Create)
				r.With(admin).Get("/", h.Order.FindAll)
				r.With(admin).Post("/vouchers/verify", h.Order.VerifyVoucher)
				r.With(admin).Get("/events/{eventId}/stream", h.OrderStream.HandleEventOrders)

				r.Route("/{orderId}", func(r chi.Router) {
					r.With(anyRole).Get("/", h.Order.FindOne)
					r.With(admin).Delete("/", h.Order.Remove)
					r.With(member).Put("/completed", h.Order.Completed)
					r.With(admin).Put("/pending", h.Order.Pending)
					r.With(admin).Put("/cancelled", h.Order.Cancelled)
					r.With(member).Get("/vouchers/{voucherId}/qr", h.Order.VoucherQR)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(admin)
				h.Analytics.RegisterRoutes(r)
			})
		})
	})

	return r
}

type catalogRoutes struct {
	findAll, findOne, create, update, remove http.HandlerFunc
	// extra mounts additional public reads.
	extra func(r chi.Router)
}

// catalog mounts the public read / admin write layout shared by the catalog resources.
func catalog(r chi.Router, prefix string, authenticated, admin func(http.Handler) http.Handler, h catalogRoutes) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", h.findAll)
		r.Get("/{id}", h.findOne)
		if h.extra != nil {
			h.extra(r)
		}

		r.Group(func(r chi.Router) {
			r.Use(authenticated, admin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.remove)
		})
	})
}

func healthz(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				utils.WriteJSON(w, http.StatusServiceUnavailable, utils.Envelope{Message: "unhealthy"})
				return
			}
		}
		utils.WriteSuccess(w, map[string]string{"status": "ok"}, "healthy")
	}
}
