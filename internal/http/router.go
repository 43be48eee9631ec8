package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/watchhaven/internal/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
	ProductsPageSize   int
	Session            SessionOptions

	// Nil values fall back to the otel globals.
	TracerProvider trace.TracerProvider
	Propagators    propagation.TextMapPropagator
}

type Services struct {
	Carts    CartService
	Checkout CheckoutService
	Orders   OrderService
	Catalog  Catalog
	DB       Pinger
}

func NewRouter(cfg RouterConfig, svc Services, log *zap.Logger) http.Handler {
	cartHandler := NewCartHandler(svc.Carts, cfg.MaxRequestBodySize)
	checkoutHandler := NewCheckoutHandler(svc.Checkout, cfg.MaxRequestBodySize)
	ordersHandler := NewOrdersHandler(svc.Orders)
	productHandler := NewProductHandler(svc.Catalog, cfg.ProductsPageSize)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if svc.DB != nil {
			if err := svc.DB.Ping(r.Context()); err != nil {
				logger.FromContext(r.Context()).Error("health check failed", zap.Error(err))
				respondJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Get("/categories", productHandler.ListCategories)
			r.Get("/by-slug/{slug}", productHandler.GetProductBySlug)
			r.Get("/{id}", productHandler.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(cfg.Session))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Delete("/clear", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{product_id}", cartHandler.UpdateItem)
				r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			})
			r.Post("/checkout", checkoutHandler.Checkout)
		})

		r.Get("/orders/{order_id}", ordersHandler.GetOrder)
	})

	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.Propagators != nil {
		opts = append(opts, otelhttp.WithPropagators(cfg.Propagators))
	}
	return otelhttp.NewHandler(r, "watchhaven", opts...)
}
