package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/souqly/marketplace/internal/index"
	"github.com/souqly/marketplace/internal/service"
	"github.com/souqly/marketplace/pkg/health"
	"github.com/souqly/marketplace/pkg/middleware"
)

// requestTimeout bounds regular API requests. The admin reindex route is
// exempt: a full rebuild on a large store takes longer than any sane request
// timeout, and cancelling it mid-run restarts the pass from the beginning.
const requestTimeout = 30 * time.Second

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	SearchService   *service.SearchService
	ProductService  *service.ProductService
	CategoryService *service.CategoryService
	Reindexer       *index.Reindexer
	HealthHandler   *health.Handler
	TokenValidator  middleware.TokenValidator
	// ReindexTimeout bounds the admin reindex request. Zero means unbounded.
	ReindexTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter creates a chi router with all marketplace routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS)
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("marketplace"))

	// Health check endpoints
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		r.Get("/health/live", deps.HealthHandler.LivenessHandler())
		r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			promhttp.Handler().ServeHTTP(w, r)
		})
	})

	searchHandler := NewSearchHandler(deps.SearchService, deps.Logger)
	productHandler := NewProductHandler(deps.ProductService, deps.Logger)
	categoryHandler := NewCategoryHandler(deps.CategoryService, deps.Logger)
	reindexHandler := NewReindexHandler(deps.Reindexer, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(requestTimeout))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.TokenValidator))
				r.Get("/search", searchHandler.Search)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productHandler.List)
				r.Get("/{id}", productHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.Auth(deps.TokenValidator))
					r.Use(ContentTypeJSON)
					r.Post("/", productHandler.Create)
					r.Patch("/{id}", productHandler.Update)
					r.Delete("/{id}", productHandler.Delete)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", categoryHandler.List)
				r.Get("/{id}", categoryHandler.Get)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			if deps.ReindexTimeout > 0 {
				r.Use(chimw.Timeout(deps.ReindexTimeout))
			}
			r.Use(middleware.Auth(deps.TokenValidator))
			r.Use(middleware.RequireRole("admin"))
			r.Post("/reindex", reindexHandler.Reindex)
		})
	})

	return r
}
