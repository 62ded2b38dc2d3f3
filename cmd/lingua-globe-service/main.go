package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"lingua-globe-service/internal/config"
	"lingua-globe-service/internal/handler"
	"lingua-globe-service/internal/metrics"
	"lingua-globe-service/internal/service"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	cfg := config.AppConfig

	// Redis is optional; without it the catalog lives in memory
	var (
		catalog  service.Catalog
		requests service.RequestStore
	)
	if cfg.RedisAddress != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddress,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		// Verify Redis connection
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		defer redisClient.Close()

		catalog = service.NewRedisCatalog(redisClient)
		requests = service.NewRedisRequestStore(redisClient)
		log.Printf("Using Redis catalog at %s", cfg.RedisAddress)
	} else {
		catalog = service.NewMemoryCatalog()
		requests = service.NewMemoryRequestStore()
		log.Println("REDIS_ADDRESS not set, using in-memory catalog")
	}

	if cfg.SeedFile != "" {
		if err := seedCatalog(context.Background(), catalog, cfg.SeedFile); err != nil {
			log.Fatal("Failed to seed catalog:", err)
		}
	}

	// Initialize services
	registry := metrics.DefaultRegistry()
	globeView := service.NewGlobeView(catalog, registry)

	// Initialize handlers
	handlers := routeHandlers{
		language: handler.NewLanguageHandler(catalog),
		globe:    handler.NewGlobeHandler(globeView, catalog, cfg.DefaultAltitude),
		importer: handler.NewImportHandler(catalog, registry),
		request:  handler.NewRequestHandler(requests),
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:      handler.ErrorHandler,
		BodyLimit:         64 * 1024 * 1024, // 64MB
		ReadBufferSize:    1024 * 1024 * 4,  // 4MB buffer
		WriteBufferSize:   1024 * 1024 * 4,  // 4MB buffer
		StreamRequestBody: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(handler.Metrics(registry))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry.GetPrometheusRegistry(), promhttp.HandlerOpts{})))

	// Setup routes
	var adminAuth fiber.Handler
	if cfg.AdminPassword != "" {
		adminAuth = basicauth.New(basicauth.Config{
			Users: map[string]string{cfg.AdminUser: cfg.AdminPassword},
		})
	} else {
		log.Println("ADMIN_PASSWORD not set, admin routes disabled")
	}
	setupRoutes(app, handlers, adminAuth)

	// Graceful shutdown channel
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			log.Fatal("Server error:", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.ServerPort)

	// Wait for interrupt signal
	<-shutdownChan
	log.Println("Shutting down server...")

	// Cleanup and shutdown
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server shutdown error:", err)
	}
}

type routeHandlers struct {
	language *handler.LanguageHandler
	globe    *handler.GlobeHandler
	importer *handler.ImportHandler
	request  *handler.RequestHandler
}

func setupRoutes(app *fiber.App, h routeHandlers, adminAuth fiber.Handler) {
	api := app.Group("/api/v1")

	// Language routes
	api.Get("/languages", h.language.List)
	api.Get("/languages/random", h.language.GetRandom)
	api.Get("/languages/:id", h.language.GetByID)
	api.Get("/archive", h.language.GetArchive)

	// Search routes
	searchRoutes := api.Group("/search")
	searchRoutes.Get("/suggestions", h.language.GetSuggestions)

	// Globe routes
	globeRoutes := api.Group("/globe")
	globeRoutes.Get("/points", h.globe.GetPoints)
	globeRoutes.Get("/points.geojson", h.globe.GetPointsGeoJSON)
	globeRoutes.Get("/labels", h.globe.GetLabels)
	globeRoutes.Get("/tier", h.globe.GetTier)

	// Visitor suggestions
	api.Post("/requests", h.request.Submit)

	if adminAuth == nil {
		return
	}

	// Import routes
	importRoutes := api.Group("/import", adminAuth)
	importRoutes.Post("/languages", h.importer.ImportLanguages)
	importRoutes.Get("/status", h.importer.GetStatus)
	importRoutes.Get("/export", h.importer.Export)
	importRoutes.Delete("/clear", h.importer.ClearDatabase)

	api.Delete("/languages/:id", adminAuth, h.importer.DeleteLanguage)
	api.Get("/requests", adminAuth, h.request.List)
}

func seedCatalog(ctx context.Context, catalog service.Catalog, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	count, err := catalog.ImportFromReader(ctx, bufio.NewReader(file), service.FormatFromName(path))
	if err != nil {
		return err
	}
	log.Printf("Seeded %d languages from %s", count, path)
	return nil
}

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
