package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/tillpoint-backend/api/controllers"
	"github.com/angelmondragon/tillpoint-backend/api/middleware"
	cartsvc "github.com/angelmondragon/tillpoint-backend/internal/cart"
	"github.com/angelmondragon/tillpoint-backend/internal/catalog"
	"github.com/angelmondragon/tillpoint-backend/internal/sales"
	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
	"github.com/angelmondragon/tillpoint-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartEngine cartsvc.Engine,
	salesService sales.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(dbP, redisClient)))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", controllers.OpenSession(cfg.JWT, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(catalogService, logg))
				r.Post("/", controllers.CreateProduct(catalogService, logg))
				r.Get("/barcode/{barcode}", controllers.GetProductByBarcode(catalogService, logg))
				r.Patch("/{productId}", controllers.UpdateProduct(catalogService, logg))
				r.Post("/{productId}/restock", controllers.RestockProduct(catalogService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(cartEngine, logg))
				r.Delete("/", controllers.ClearCart(cartEngine, logg))
				r.Post("/scan", controllers.ScanIntoCart(cartEngine, logg))
				r.Post("/items", controllers.AddCartItem(cartEngine, logg))
				r.Patch("/items/{productId}", controllers.SetCartItemQuantity(cartEngine, logg))
				r.Delete("/items/{index}", controllers.RemoveCartItem(cartEngine, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/quote", controllers.QuoteCheckout(salesService, logg))
				r.Post("/", controllers.CommitCheckout(salesService, cartEngine, logg))
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", controllers.ListTransactions(salesService, logg))
				r.Get("/{transactionId}", controllers.GetTransaction(salesService, logg))
			})
		})
	})

	return r
}

func readinessDeps(dbP db.Pinger, redisClient *redis.Client) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["database"] = dbP
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
