package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eccentriccoder01/Bharatshaala/api/controllers"
	"github.com/eccentriccoder01/Bharatshaala/api/middleware"
	"github.com/eccentriccoder01/Bharatshaala/internal/address"
	"github.com/eccentriccoder01/Bharatshaala/internal/cart"
	"github.com/eccentriccoder01/Bharatshaala/internal/catalog"
	"github.com/eccentriccoder01/Bharatshaala/internal/orders"
	"github.com/eccentriccoder01/Bharatshaala/internal/reviews"
	"github.com/eccentriccoder01/Bharatshaala/internal/wishlist"
	"github.com/eccentriccoder01/Bharatshaala/pkg/config"
	"github.com/eccentriccoder01/Bharatshaala/pkg/db"
	"github.com/eccentriccoder01/Bharatshaala/pkg/logger"
	"github.com/eccentriccoder01/Bharatshaala/pkg/metrics"
	"github.com/eccentriccoder01/Bharatshaala/pkg/redis"
)

const (
	roleVendor = "vendor"
	roleAdmin  = "admin"
)

type limiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// NewRouter wires every HTTP surface of the marketplace.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	promRegistry *prometheus.Registry,
	catalogService catalog.Service,
	cartService cart.Service,
	wishlistService wishlist.Service,
	addressService address.Service,
	ordersService orders.Service,
	reviewsService reviews.Service,
) http.Handler {
	// A typed nil client must become a nil interface so the middleware
	// fall-through paths engage.
	var idempotencyStore redis.IdempotencyStore
	var rateLimitStore limiterStore
	var redisPinger redis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		rateLimitStore = redisClient
		redisPinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, dbP, redisPinger))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog surface.
		r.Get("/products", controllers.ListProducts(catalogService, logg))
		r.Get("/products/{productId}", controllers.GetProduct(catalogService, logg))
		r.Get("/products/{productId}/reviews", controllers.ReviewList(reviewsService, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, logg))
		r.Get("/markets", controllers.ListMarkets(catalogService, logg))

		// Everything below requires an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.Idempotency(idempotencyStore, logg),
			)

			r.Post("/products/{productId}/reviews", controllers.ReviewCreate(reviewsService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/items", controllers.CartAdd(cartService, logg))
				r.Put("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(wishlistService, logg))
				r.Post("/", controllers.WishlistAdd(wishlistService, logg))
				r.Delete("/{productId}", controllers.WishlistRemove(wishlistService, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(addressService, logg))
				r.Post("/", controllers.AddressCreate(addressService, logg))
				r.Patch("/{addressId}", controllers.AddressUpdate(addressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.OrderCreate(ordersService, logg))
				r.Get("/", controllers.OrderList(ordersService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
				r.Get("/{orderId}/tracking", controllers.OrderTracking(ordersService, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/initiate", controllers.PaymentInitiate(ordersService, logg))
				// Verify stays outside the idempotency cache: the signature
				// check is what makes replays safe.
				r.With(middleware.RateLimit(middleware.PaymentVerifyPolicy(), rateLimitStore, logg)).
					Post("/verify", controllers.PaymentVerify(ordersService, logg))
			})

			r.Route("/vendor", func(r chi.Router) {
				r.Use(middleware.RequireRole(roleVendor, logg))

				r.Route("/products", func(r chi.Router) {
					r.Get("/", controllers.VendorListProducts(catalogService, logg))
					r.Post("/", controllers.VendorCreateProduct(catalogService, logg))
					r.Patch("/{productId}", controllers.VendorUpdateProduct(catalogService, logg))
					r.Delete("/{productId}", controllers.VendorDeleteProduct(catalogService, logg))
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", controllers.VendorOrderList(ordersService, logg))
					r.Patch("/{orderId}/status", controllers.VendorOrderUpdateStatus(ordersService, logg))
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(roleAdmin, logg))

				r.Get("/orders", controllers.AdminListOrders(ordersService, logg))
				r.Post("/orders/{orderId}/refund", controllers.AdminRefundOrder(ordersService, logg))

				r.Post("/categories", controllers.AdminCreateCategory(catalogService, logg))
				r.Put("/categories/{categoryId}", controllers.AdminUpdateCategory(catalogService, logg))
				r.Post("/markets", controllers.AdminCreateMarket(catalogService, logg))
				r.Put("/markets/{marketId}", controllers.AdminUpdateMarket(catalogService, logg))
				r.Patch("/products/{productId}/status", controllers.AdminSetProductStatus(catalogService, logg))
			})
		})
	})

	return r
}
