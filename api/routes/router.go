package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ahmadmoradi/pakhshyar-backend/api/controllers"
	"github.com/ahmadmoradi/pakhshyar-backend/api/middleware"
	authsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/auth"
	dashboardsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/dashboard"
	documentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/documents"
	ordersvc "github.com/ahmadmoradi/pakhshyar-backend/internal/orders"
	paymentsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/payments"
	productsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/products"
	repsvc "github.com/ahmadmoradi/pakhshyar-backend/internal/representatives"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/auth/session"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/config"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/db"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/enums"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/logger"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/metrics"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/redis"
	"github.com/ahmadmoradi/pakhshyar-backend/pkg/storage/local"
)

// Services bundles the wired domain services for the router.
type Services struct {
	Auth            *authsvc.Service
	Orders          *ordersvc.Service
	Payments        *paymentsvc.Service
	Products        *productsvc.Service
	Representatives *repsvc.Service
	Documents       *documentsvc.Service
	Dashboard       *dashboardsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	sessions *session.Manager,
	m *metrics.Metrics,
	store *local.Store,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(m),
		middleware.CORS(),
	)

	maxUploadMB := cfg.Uploads.MaxUploadMB

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	if store != nil {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(store.Dir())))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).
			Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(enums.RoleRepresentative, logg))

		r.Get("/products", controllers.ProductList(svcs.Products, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svcs.Orders, logg))
			r.Post("/", controllers.OrderCreate(svcs.Orders, logg))
			r.Get("/summary", controllers.OrderSummary(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Put("/{orderId}", controllers.OrderReplace(svcs.Orders, logg))
			r.Delete("/{orderId}", controllers.OrderDelete(svcs.Orders, logg))
			r.Post("/{orderId}/payments", controllers.PaymentCreate(svcs.Payments, store, maxUploadMB, logg))
			r.Get("/{orderId}/payments", controllers.PaymentList(svcs.Payments, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(svcs.Orders, logg))
			r.Post("/", controllers.AdminOrderCreate(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(svcs.Orders, logg))
			r.Put("/{orderId}", controllers.AdminOrderReplace(svcs.Orders, logg))
			r.Patch("/{orderId}", controllers.AdminOrderPatch(svcs.Orders, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(svcs.Orders, logg))
			r.Post("/{orderId}/items", controllers.AdminOrderAddItem(svcs.Orders, logg))
			r.Delete("/{orderId}/items", controllers.AdminOrderRemoveItem(svcs.Orders, logg))
			r.Get("/{orderId}/payments", controllers.AdminOrderPayments(svcs.Payments, logg))
			r.Post("/{orderId}/payments", controllers.AdminPaymentCreate(svcs.Payments, store, maxUploadMB, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", controllers.AdminPaymentList(svcs.Payments, logg))
			r.Delete("/{paymentId}", controllers.AdminPaymentDelete(svcs.Payments, logg))
		})

		r.Route("/representatives", func(r chi.Router) {
			r.Get("/", controllers.RepresentativeList(svcs.Representatives, logg))
			r.Post("/", controllers.RepresentativeCreate(svcs.Representatives, logg))
			r.Get("/{representativeId}", controllers.RepresentativeGet(svcs.Representatives, logg))
			r.Put("/{representativeId}", controllers.RepresentativeUpdate(svcs.Representatives, logg))
			r.Delete("/{representativeId}", controllers.RepresentativeDelete(svcs.Representatives, logg))
			r.Post("/{representativeId}/files", controllers.RepresentativeUploadFile(svcs.Documents, svcs.Representatives, store, maxUploadMB, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(svcs.Products, logg))
			r.Post("/", controllers.AdminProductCreate(svcs.Products, logg))
			r.Get("/{productId}", controllers.AdminProductGet(svcs.Products, logg))
			r.Put("/{productId}", controllers.AdminProductUpdate(svcs.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svcs.Products, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.DashboardStats(svcs.Dashboard, logg))
			r.Get("/active-representatives", controllers.DashboardActiveRepresentatives(svcs.Dashboard, logg))
			r.Get("/recent-orders", controllers.DashboardRecentOrders(svcs.Dashboard, logg))
		})
	})

	return r
}
