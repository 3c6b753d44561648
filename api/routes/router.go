package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/orderdesk/api/controllers"
	"github.com/angelmondragon/orderdesk/api/middleware"
	"github.com/angelmondragon/orderdesk/internal/inventory"
	"github.com/angelmondragon/orderdesk/internal/orders"
	"github.com/angelmondragon/orderdesk/pkg/auth/session"
	"github.com/angelmondragon/orderdesk/pkg/config"
	"github.com/angelmondragon/orderdesk/pkg/enums"
	"github.com/angelmondragon/orderdesk/pkg/logger"
)

// Deps are the services mounted by the router. Revocations, Revoker and RateLimiter are nil when
// no shared store is configured.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Sessions    controllers.Sessions
	Orders      orders.Service
	Inventory   inventory.Service
	Revocations session.RevocationChecker
	Revoker     controllers.TokenRevoker
	RateLimiter middleware.RateLimiterStore
	Gatherer    prometheus.Gatherer
	Ready       map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	checkoutPolicy := middleware.NewRateLimitPolicy("checkout", cfg.HTTP.CheckoutRateLimit, cfg.HTTP.CheckoutRateWindow)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Revocations, logg))

		r.Get("/navigation", controllers.Navigation(logg))
		r.Post("/session/logout", controllers.SessionLogout(deps.Sessions, deps.Revoker, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSection(enums.SectionPlaceOrder, logg))
			r.Get("/catalog", controllers.CatalogList(deps.Sessions, logg))
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(deps.Sessions, logg))
				r.Delete("/", controllers.CartClear(deps.Sessions, logg))
				r.Post("/items", controllers.CartAddItem(deps.Sessions, logg))
				r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.Sessions, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Sessions, logg))
			})
			r.With(middleware.UserRateLimit(checkoutPolicy, deps.RateLimiter, logg)).
				Post("/checkout", controllers.Checkout(deps.Sessions, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.RequireSection(enums.SectionOrderList, logg))
			r.Get("/", controllers.OrdersList(deps.Orders, cfg.Orders.PageSize, logg))
			r.Put("/{orderId}", controllers.OrderUpdate(deps.Orders, logg))
			r.Post("/{orderId}/process", controllers.OrderProcess(deps.Orders, logg))
			r.Delete("/{orderId}", controllers.OrderDelete(deps.Orders, logg))
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Use(middleware.RequireSection(enums.SectionInventory, logg))
			r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
			r.Put("/{itemId}", controllers.InventoryUpdate(deps.Inventory, logg))
			r.Post("/{itemId}/issue", controllers.InventoryIssue(deps.Inventory, logg))
			r.Post("/{itemId}/request", controllers.InventoryRequest(deps.Inventory, logg))
			r.Post("/{itemId}/transfer", controllers.InventoryTransfer(deps.Inventory, logg))
		})
	})

	return r
}
