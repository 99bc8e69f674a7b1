package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/foodorder-backend/api/controllers"
	"github.com/angelmondragon/foodorder-backend/api/docs"
	"github.com/angelmondragon/foodorder-backend/api/middleware"
	"github.com/angelmondragon/foodorder-backend/api/responses"
	"github.com/angelmondragon/foodorder-backend/internal/auth"
	"github.com/angelmondragon/foodorder-backend/internal/cart"
	"github.com/angelmondragon/foodorder-backend/internal/catalog"
	"github.com/angelmondragon/foodorder-backend/internal/contact"
	"github.com/angelmondragon/foodorder-backend/internal/orders"
	"github.com/angelmondragon/foodorder-backend/internal/tracking"
	"github.com/angelmondragon/foodorder-backend/pkg/auth/session"
	"github.com/angelmondragon/foodorder-backend/pkg/config"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
	"github.com/angelmondragon/foodorder-backend/pkg/metrics"
	"github.com/angelmondragon/foodorder-backend/pkg/redis"
)

// Deps collects what the router needs. Nil services answer with an internal
// error rather than panicking.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer
	Docs     *docs.Document

	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker

	Auth     auth.Service
	Cart     cart.Service
	Catalog  catalog.Service
	Orders   orders.Service
	Tracking tracking.Service
	Contact  contact.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, d.Metrics),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	// A nil *redis.Client must not become a non-nil interface.
	var (
		rateStore        = rateLimitStore(d.Redis)
		idempotencyStore = idempotencyBackend(d.Redis)
		readiness        = []controllers.Dependency{{Name: "db", Pinger: d.DB}}
	)
	if d.Redis != nil {
		readiness = append(readiness, controllers.Dependency{Name: "redis", Pinger: d.Redis})
	}

	requireAuth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	requireAdmin := middleware.RequireRole(enums.UserRoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness...))
	})
	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}
	if d.Docs != nil {
		r.Get("/openapi.json", d.Docs.ServeJSON)
		r.Get("/openapi.yaml", d.Docs.ServeYAML)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(middleware.RegisterRateLimitPolicy(cfg.AuthRateLimit), rateStore, logg)).
			Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.With(middleware.AuthRateLimit(middleware.LoginRateLimitPolicy(cfg.AuthRateLimit), rateStore, logg)).
			Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.With(requireAuth).Post("/logout", controllers.AuthLogout(d.Auth, logg))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", controllers.CartAdd(d.Cart, logg))
		r.Get("/", controllers.CartList(d.Cart, logg))
		r.Delete("/", controllers.CartClear(d.Cart, logg))
		r.Put("/item/{itemId}", controllers.CartUpdateItem(d.Cart, logg))
		r.Delete("/item/{itemId}", controllers.CartDeleteItem(d.Cart, logg))
	})

	r.Route("/order", func(r chi.Router) {
		r.Use(requireAuth)
		r.With(middleware.Idempotency(idempotencyStore, cfg.Idempotency.TTL, logg)).
			Post("/order", controllers.OrderPlace(d.Orders, logg))
		r.Get("/orders", controllers.OrderList(d.Orders, logg))
		r.Get("/order/{id}", controllers.OrderGet(d.Orders, logg))
	})

	r.Get("/tracking/orders/{orderId}/status", controllers.TrackingStatus(d.Tracking, logg))

	r.Route("/tracklocation", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/orders", controllers.AdminOrderList(d.Orders, logg))
		r.Post("/orders/update-step", controllers.OrderAdvanceStep(d.Orders, logg))
	})

	r.Get("/categories", controllers.CategoryList(d.Catalog, logg))
	r.Get("/chefs", controllers.ChefList(d.Catalog, logg))
	r.Route("/subcategories", func(r chi.Router) {
		r.Get("/", controllers.SubcategoryList(d.Catalog, logg))
		r.Get("/category/{categoryId}", controllers.SubcategoriesByCategory(d.Catalog, logg))
		r.Get("/items/{subcategoryId}", controllers.ItemsBySubcategory(d.Catalog, logg))
		r.Get("/{id}", controllers.SubcategoryGet(d.Catalog, logg))
	})
	r.Route("/items", func(r chi.Router) {
		r.Get("/", controllers.ItemList(d.Catalog, logg))
		r.Get("/subcategory/{subcategoryId}", controllers.ItemsBySubcategory(d.Catalog, logg))
		r.Get("/{id}", controllers.ItemGet(d.Catalog, logg))
	})

	r.Post("/contact", controllers.ContactSubmit(d.Contact, logg))

	r.Route("/admin", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)
		r.Get("/orders", controllers.AdminOrderList(d.Orders, logg))
		r.Delete("/orders/{orderId}", controllers.AdminOrderDelete(d.Orders, logg))
		r.Post("/categories", controllers.AdminCategoryCreate(d.Catalog, logg))
		r.Post("/subcategories", controllers.AdminSubcategoryCreate(d.Catalog, logg))
		r.Post("/items", controllers.AdminItemCreate(d.Catalog, logg))
		r.Delete("/items/{id}", controllers.AdminItemDelete(d.Catalog, logg))
		r.Post("/chefs", controllers.AdminChefCreate(d.Catalog, logg))
		r.Get("/contact", controllers.ContactList(d.Contact, logg))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route does not exist"))
	})

	return r
}
