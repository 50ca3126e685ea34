package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/tvshop-backend/api/controllers"
	"github.com/angelmondragon/tvshop-backend/api/middleware"
	"github.com/angelmondragon/tvshop-backend/internal/cart"
	"github.com/angelmondragon/tvshop-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/tvshop-backend/internal/checkout"
	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/internal/stock"
	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/redis"
)

// RedisStore is the slice of Redis the HTTP layer needs for idempotency and throttling.
type RedisStore interface {
	redis.IdempotencyStore
	redis.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisStore RedisStore,
	metricsHandler http.Handler,
	catalogReader catalog.Reader,
	stockLedger stock.Ledger,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
	receipts controllers.ReceiptRenderer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	var (
		idempotencyStore redis.IdempotencyStore
		rateStore        rateLimiter
		redisPinger      controllers.Pinger
	)
	if redisStore != nil {
		idempotencyStore = redisStore
		rateStore = redisStore
		redisPinger = redisStore
	}

	cartPolicy := middleware.NewRateLimitPolicy(
		"cart",
		cfg.RateLimit.Window,
		cfg.RateLimit.CartIPLimit,
		cfg.RateLimit.CartSessionLimit,
	).TrustingProxies(cfg.RateLimit.TrustedProxies)
	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.Window,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutUserLimit,
	).TrustingProxies(cfg.RateLimit.TrustedProxies)
	checkoutOnce := middleware.Idempotency(idempotencyStore, middleware.CheckoutIdempotencyTTL, logg)
	adminOnce := middleware.Idempotency(idempotencyStore, middleware.AdminIdempotencyTTL, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Storefront routes accept anonymous visitors whose cart lives behind a cookie.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.CartSession(cfg.Cart, logg))

			r.Get("/televisions/{televisionId}", controllers.TelevisionDetail(catalogReader, stockLedger, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(cartService, logg))
				r.With(middleware.RateLimit(cartPolicy, rateStore, logg)).Post("/items/{televisionId}", controllers.CartAddItem(cartService, logg))
				r.With(middleware.RateLimit(cartPolicy, rateStore, logg)).Delete("/items/{televisionId}", controllers.CartRemoveItem(cartService, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(
				middleware.RateLimit(checkoutPolicy, rateStore, logg),
				checkoutOnce,
			).Post("/checkout", controllers.Checkout(checkoutService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
				r.Delete("/{orderId}", controllers.OrderDelete(ordersService, logg))
				r.Get("/{orderId}/receipt", controllers.OrderReceipt(ordersService, receipts, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
				r.With(adminOnce).Put("/stock/{televisionId}", controllers.AdminSetStock(stockLedger, logg))
				r.With(adminOnce).Patch("/orders/{orderId}/status", controllers.AdminUpdateOrderStatus(ordersService, logg))
			})
		})
	})

	return r
}

type rateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}
