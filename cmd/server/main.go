package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/propestimator/backend/internal/delivery/http"
	"github.com/propestimator/backend/internal/domain"
	"github.com/propestimator/backend/internal/model"
	"github.com/propestimator/backend/internal/repository/files"
	"github.com/propestimator/backend/internal/repository/postgres"
	"github.com/propestimator/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Reference data source: Postgres when configured and reachable, JSON files otherwise
	var refRepo service.ReferenceRepository = files.NewFileRepository(cfg.ZonesPath, cfg.PropertyTypesPath)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			log.Println("Loading reference data from files")
		} else {
			defer pool.Close()
			log.Println("Connected to PostgreSQL")
			refRepo = postgres.NewPostgresRepository(pool)
		}
	}

	// Everything below is loaded once; nothing is served if any artifact is missing
	mdl, err := loadModel(ctx, cfg)
	if err != nil {
		fatalArtifact(err)
	}
	ref, err := domain.LoadReferenceData(ctx, refRepo)
	if err != nil {
		fatalArtifact(err)
	}
	log.Printf("Loaded %d zones and %d property types", len(ref.SortedZones()), len(ref.PropertyTypes()))

	formSvc := service.NewFormService(ref)
	estimator := service.NewEstimator(mdl)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Property Estimator v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		ErrorHandler: http.ErrorHandler,
		Views:        http.NewViews(),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, formSvc, estimator, refRepo)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s (%s)", port, cfg.Env)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

type Config struct {
	Port              string
	Env               string
	ModelBackend      string
	ModelPath         string
	MLServiceURL      string
	ZonesPath         string
	PropertyTypesPath string
	DatabaseURL       string
}

func loadConfig() *Config {
	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("GO_ENV", "development"),
		ModelBackend:      getEnv("MODEL_BACKEND", "local"),
		ModelPath:         getEnv("MODEL_PATH", "models/random_forest_model.json"),
		MLServiceURL:      getEnv("ML_SERVICE_URL", "http://localhost:8000"),
		ZonesPath:         getEnv("ZONES_PATH", "data/barrios_por_zona.json"),
		PropertyTypesPath: getEnv("PROPERTY_TYPES_PATH", "data/tipos_propiedad.json"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadModel(ctx context.Context, cfg *Config) (domain.Model, error) {
	switch cfg.ModelBackend {
	case "remote":
		log.Printf("Using inference service at %s", cfg.MLServiceURL)
		b, err := service.ConnectMLBridge(ctx, cfg.MLServiceURL)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "local", "":
		f, err := model.LoadForest(cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded model %s (%d trees)", cfg.ModelPath, f.Trees())
		return f, nil
	default:
		return nil, &domain.MissingArtifactError{
			Artifact: domain.ArtifactModel,
			Remedy:   "set MODEL_BACKEND to local or remote",
			Err:      errors.New("unknown model backend " + cfg.ModelBackend),
		}
	}
}

func fatalArtifact(err error) {
	var missing *domain.MissingArtifactError
	if errors.As(err, &missing) {
		log.Fatalf("❌ %v", missing)
	}
	log.Fatalf("Failed to load reference data: %v", err)
}
