package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pedidoz-backend/api/controllers"
	"github.com/angelmondragon/pedidoz-backend/api/middleware"
	"github.com/angelmondragon/pedidoz-backend/internal/catalog"
	"github.com/angelmondragon/pedidoz-backend/internal/conversation"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	"github.com/angelmondragon/pedidoz-backend/pkg/config"
	"github.com/angelmondragon/pedidoz-backend/pkg/db"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/redis"
)

type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	Catalog      catalog.Service
	Orders       orders.Service
	Conversation conversation.Service
	Metrics      http.Handler
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DB, params.Redis))
	})

	metricsHandler := params.Metrics
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/webhook", func(r chi.Router) {
		r.Get("/", controllers.WebhookVerify(cfg.WhatsApp.VerifyToken, logg))
		r.With(middleware.VerifySignature(cfg.WhatsApp.AppSecret, logg)).
			Post("/", controllers.WebhookReceive(params.Conversation, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Post("/products", controllers.AdminUpsertProduct(params.Catalog, logg))
		r.Get("/products", controllers.AdminListProducts(params.Catalog, logg))
		r.Get("/products/{sku}", controllers.AdminGetProduct(params.Catalog, logg))
		r.Get("/orders", controllers.AdminOrderHistory(params.Orders, logg))
	})

	return r
}
