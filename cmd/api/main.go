package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pedidoz-backend/api/routes"
	"github.com/angelmondragon/pedidoz-backend/internal/catalog"
	"github.com/angelmondragon/pedidoz-backend/internal/conversation"
	"github.com/angelmondragon/pedidoz-backend/internal/nlu"
	"github.com/angelmondragon/pedidoz-backend/internal/orders"
	"github.com/angelmondragon/pedidoz-backend/internal/sessions"
	"github.com/angelmondragon/pedidoz-backend/pkg/config"
	"github.com/angelmondragon/pedidoz-backend/pkg/db"
	"github.com/angelmondragon/pedidoz-backend/pkg/logger"
	"github.com/angelmondragon/pedidoz-backend/pkg/metrics"
	"github.com/angelmondragon/pedidoz-backend/pkg/migrate"
	"github.com/angelmondragon/pedidoz-backend/pkg/oracle"
	"github.com/angelmondragon/pedidoz-backend/pkg/outbox"
	"github.com/angelmondragon/pedidoz-backend/pkg/redis"
	"github.com/angelmondragon/pedidoz-backend/pkg/whatsapp"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	waClient, err := whatsapp.NewClient(cfg.WhatsApp)
	if err != nil {
		logg.Error(context.Background(), "failed to create whatsapp client", err)
		os.Exit(1)
	}

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)

	var oracleClient *oracle.Client
	if cfg.Oracle.Enabled && cfg.Oracle.APIKey != "" {
		oracleClient, err = oracle.NewClient(cfg.Oracle)
		if err != nil {
			logg.Error(context.Background(), "failed to create oracle client", err)
			os.Exit(1)
		}
	}

	segmenterParams := nlu.SegmenterParams{
		OracleTimeout: cfg.Oracle.Timeout,
		Metrics:       botMetrics,
		Logger:        logg,
	}
	extractorParams := nlu.ExtractorParams{
		OracleTimeout: cfg.Oracle.Timeout,
		Metrics:       botMetrics,
		Logger:        logg,
	}
	if oracleClient != nil {
		segmenterParams.Oracle = oracleClient
		extractorParams.Oracle = oracleClient
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	sessionStore, err := sessions.NewStore(sessions.StoreParams{
		KV:         redisClient,
		SessionTTL: cfg.Bot.SessionTTL,
		LeaseTTL:   cfg.Bot.TurnLeaseTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.ServiceParams{
		Repository: orders.NewRepository(dbClient.DB()),
		DB:         dbClient,
		Emitter:    outbox.NewService(outbox.NewRepository(dbClient.DB()), logg),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	conversationRepo, err := conversation.NewRepository(dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create conversation repository", err)
		os.Exit(1)
	}

	conversationService, err := conversation.NewService(conversation.ServiceParams{
		Catalog:   catalogService,
		Sessions:  sessionStore,
		Orders:    orderService,
		Messenger: waClient,
		Segmenter: nlu.NewSegmenter(segmenterParams),
		Extractor: nlu.NewExtractor(extractorParams),
		Recorder:  conversationRepo,
		Metrics:   botMetrics,
		Logger:    logg,
		Bot:       cfg.Bot,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create conversation service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Catalog:      catalogService,
			Orders:       orderService,
			Conversation: conversationService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
