package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/snap-point/directory-api/cache"
	"github.com/snap-point/directory-api/clients"
	"github.com/snap-point/directory-api/config"
	"github.com/snap-point/directory-api/controllers"
	"github.com/snap-point/directory-api/routes"
	"github.com/snap-point/directory-api/services"
	"github.com/snap-point/directory-api/types"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if cfg.Places.APIKey == "" {
		logger.Error("GOOGLE_PLACES_API_KEY is not set; searches will fail with MISSING_PROVIDER_KEY")
	}

	provider := clients.NewPlacesClient(cfg.Places.APIKey,
		clients.WithBaseURL(cfg.Places.BaseURL),
		clients.WithTimeout(cfg.Places.Timeout),
		clients.WithLogger(logger),
	)

	results := cache.New[*types.SearchResponse](
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithSweepInterval(cfg.Cache.SweepInterval),
		cache.WithMaxEntries(cfg.Cache.MaxEntries),
		cache.WithLogger(logger),
	)
	results.Start()
	defer results.Close()
	logger.Info("search cache started", "ttl", results.TTL(), "sweep_interval", cfg.Cache.SweepInterval)

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithDetailWorkers(cfg.DetailsWorkers),
	}

	// Persisted place details are optional
	db, err := config.ConnectDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if db != nil {
		opts = append(opts, services.WithDetailsStore(services.NewGormDetailsStore(db, cfg.DetailsTTL)))
		logger.Info("place details persistence enabled", "ttl", cfg.DetailsTTL)
	}

	searchService, err := services.NewSearchService(provider, results, opts...)
	if err != nil {
		log.Fatal("Failed to create search service: ", err)
	}
	defer searchService.Release()

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Create a new Gin router
	r := gin.Default()

	// Initialize routes
	routes.SetupRoutes(r, controllers.NewSearchController(searchService, logger), cfg.AllowedOrigins)

	logger.Info("starting server", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
