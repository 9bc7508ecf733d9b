package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/controllers"
	cartcontrollers "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/controllers/cart"
	ordercontrollers "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/controllers/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/api/middleware"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/cart"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/catalog"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/loyalty"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/internal/orders"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/config"
	"github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/logger"
	pkgredis "github.com/Jcpastelariagourmet/jcpastelariagourmet-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
	loyaltyService loyalty.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins()),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/categories", controllers.CategoriesList(catalogService, logg))
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
			r.Post("/{productId}/quote", controllers.ProductQuote(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.CartSession(logg))
			r.Get("/", cartcontrollers.CartFetch(cartService, logg))
			r.Delete("/", cartcontrollers.CartClear(cartService, logg))
			r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", cartcontrollers.CartRemoveItem(cartService, logg))
			r.Post("/coupons", cartcontrollers.CartApplyCoupon(cartService, logg))
			r.Delete("/coupons/{couponId}", cartcontrollers.CartRemoveCoupon(cartService, logg))
		})

		r.With(
			middleware.CartSession(logg),
			middleware.Idempotency(idempotencyStore, cfg.Idempotency.CheckoutTTL, logg),
		).Post("/checkout", ordercontrollers.Checkout(ordersService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ordercontrollers.List(ordersService, logg))
			r.Get("/{orderId}", ordercontrollers.Detail(ordersService, logg))
			r.Patch("/{orderId}/status", ordercontrollers.UpdateStatus(ordersService, logg))
		})

		r.Get("/loyalty/{phone}", controllers.LoyaltyAccount(loyaltyService, logg))
	})

	return r
}
