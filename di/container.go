package di

import (
	"context"
	"fmt"
	"log"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"

	"li-server/analysis"
	"li-server/api"
	"li-server/api/events"
	"li-server/api/foursquare"
	"li-server/api/googleplaces"
	"li-server/api/locations"
	"li-server/api/ratelimit"
	"li-server/api/retry"
	"li-server/cache"
	"li-server/config"
	"li-server/db"
	"li-server/server"
	"li-server/server/handlers"
	services "li-server/service"
	"li-server/storage"
)

// Container holds all application dependencies.
type Container struct {
	Config          *config.Config
	RedisClient     db.RedisClient
	GeoCache        *cache.GeoCache
	RestaurantStore *storage.RestaurantStore
	Provider        locations.Provider
	EventsSource    locations.EventsSource
	Engine          *analysis.CompetitiveEngine
	ReportService   *services.ReportService
	ReportHandler   *handlers.ReportHandler
	HealthHandler   *handlers.HealthHandler
	MuxRouter       *mux.Router
	Router          *server.Router
	HttpServer      *server.LocationIntelHttpServer
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Printf("initializing container - env: %s, source: %s", cfg.Environment, cfg.Providers.LocationSource)
	ctx := context.Background()

	// Redis is a cache, not a source of truth. An unreachable instance is
	// logged and the server starts anyway; every read degrades to a miss.
	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient := db.NewGeoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		log.Printf("WARN: Redis unreachable at %s, caching disabled: %v", cfg.Redis.Address, err)
	}

	geoCache := cache.NewGeoCache(redisClient, cfg.CacheTTL)

	restaurantStore, err := storage.NewRestaurantStore(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening restaurant store: %w", err)
	}

	provider, eventsSource := buildProviders(cfg)

	engine := analysis.NewCompetitiveEngine(cfg.Analysis)
	reportService := services.NewReportService(provider, eventsSource, geoCache, engine, restaurantStore)

	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(provider, redisClient)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(reportHandler, healthHandler, muxRouter)
	httpServer := server.NewLocationIntelHttpServer(router, muxRouter, cfg.Server.Port, cfg.Server.ShutdownTimeout.Std())

	return &Container{
		Config:          cfg,
		RedisClient:     redisClient,
		GeoCache:        geoCache,
		RestaurantStore: restaurantStore,
		Provider:        provider,
		EventsSource:    eventsSource,
		Engine:          engine,
		ReportService:   reportService,
		ReportHandler:   reportHandler,
		HealthHandler:   healthHandler,
		MuxRouter:       muxRouter,
		Router:          router,
		HttpServer:      httpServer,
	}, nil
}

// buildProviders selects the single active location source plus the events
// source. Non-prod environments run on fixture-backed mocks.
func buildProviders(cfg *config.Config) (locations.Provider, locations.EventsSource) {
	if cfg.Environment != "prod" {
		log.Printf("Using mock location and events providers")
		return locations.NewProviderMock(), events.NewSourceMock()
	}

	policy := retry.NewPolicy(cfg.Retry.MaxAttempts, cfg.Retry.BaseDelay.Std(), cfg.Retry.CapDelay.Std())

	var provider locations.Provider
	switch cfg.Providers.LocationSource {
	case config.SOURCE_GOOGLE:
		log.Printf("Using Google Places location provider")
		provider = googleplaces.NewClient(
			api.NewHTTPClient(cfg.Providers.Google.BaseURL),
			cfg.Providers.Google.APIKey,
			ratelimit.NewSlidingWindow(cfg.RateLimits.Google.Capacity, cfg.RateLimits.Google.Window.Std()),
			policy,
		)
	default:
		log.Printf("Using Foursquare location provider")
		provider = foursquare.NewClient(
			api.NewHTTPClient(cfg.Providers.Foursquare.BaseURL),
			cfg.Providers.Foursquare.APIKey,
			ratelimit.NewSlidingWindow(cfg.RateLimits.Foursquare.Capacity, cfg.RateLimits.Foursquare.Window.Std()),
			policy,
		)
	}

	eventsSource := events.NewClient(
		api.NewHTTPClient(cfg.Providers.Events.BaseURL),
		cfg.Providers.Events.APIKey,
		ratelimit.NewSlidingWindow(cfg.RateLimits.Events.Capacity, cfg.RateLimits.Events.Window.Std()),
		policy,
	)

	return provider, eventsSource
}
