package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/manor5/electraSIR/internal/config"
	"github.com/manor5/electraSIR/internal/database"
	"github.com/manor5/electraSIR/internal/handlers"
	"github.com/manor5/electraSIR/internal/logger"
	"github.com/manor5/electraSIR/internal/middleware"
	"github.com/manor5/electraSIR/internal/models"
	"github.com/manor5/electraSIR/internal/reference"
	"github.com/manor5/electraSIR/internal/repository"
	"github.com/manor5/electraSIR/internal/services"
	"github.com/manor5/electraSIR/internal/transliterate"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Local overrides are optional
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Env)
	log.Info("Starting electraSIR API", map[string]interface{}{
		"version":      handlers.APIVersion,
		"environment":  cfg.Server.Env,
		"port":         cfg.Server.Port,
		"constituency": cfg.Roll.FlagshipConstituency,
	})

	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to prepare schema", err, nil)
	}

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
		"voters":   cfg.Tables.Voters,
		"match":    cfg.Tables.Match,
		"missing":  cfg.Tables.Missing,
	})

	catalog, err := reference.Load()
	if err != nil {
		log.Fatal("Failed to load reference catalog", err, nil)
	}
	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal("Failed to register validators", err, nil)
	}

	// Repositories
	voterRepo := repository.NewElectorRepository(db, cfg.Tables.Voters)
	matchRepo := repository.NewElectorRepository(db, cfg.Tables.Match)
	missingRepo := repository.NewMissingRepository(db, cfg.Tables.Missing)
	savedRepo := repository.NewSavedQueryRepository(db)
	counterRepo := repository.NewCounterRepository(db)
	consoleRepo := repository.NewConsoleRepository(db)
	authRepo := repository.NewAuthRepository(db)

	// Services
	flagship := cfg.Roll.FlagshipConstituency
	searchService := services.NewSearchService(voterRepo, counterRepo, flagship, log)
	missingService := services.NewMissingService(missingRepo, matchRepo, flagship, log)
	consoleService := services.NewConsoleService(consoleRepo, savedRepo, log)
	authService := services.NewAuthService(authRepo, cfg.Session.TTL, log)
	translitClient := transliterate.NewClient(cfg.Transliteration.URL, cfg.Transliteration.Timeout, cfg.Transliteration.RequestsPerSecond)
	translitService := services.NewTransliterationService(translitClient, log)

	if purged, err := authService.PurgeExpired(ctx); err != nil {
		log.Warn("Failed to purge expired sessions", map[string]interface{}{
			"error": err.Error(),
		})
	} else if purged > 0 {
		log.Info("Purged expired sessions", map[string]interface{}{
			"count": purged,
		})
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS -> Session
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))
	router.Use(middleware.Session(authService, cfg.Session.CookieName))

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env, flagship)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	authHandler := handlers.NewAuthHandler(authService, cfg.Session)
	referenceHandler := handlers.NewReferenceHandler(catalog)
	electorHandler := handlers.NewElectorHandler(searchService)
	translitHandler := handlers.NewTransliterationHandler(translitService)
	missingHandler := handlers.NewMissingHandler(missingService)
	consoleHandler := handlers.NewConsoleHandler(consoleService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireRole(models.RoleViewer), authHandler.Me)
		}

		ref := v1.Group("/reference")
		{
			ref.GET("/districts", referenceHandler.Districts)
			ref.GET("/districts/:district/constituencies", referenceHandler.Constituencies)
			ref.GET("/genders", referenceHandler.Genders)
			ref.GET("/resolve/:district/:constituency", referenceHandler.Resolve)
		}

		electors := v1.Group("/electors")
		{
			electors.POST("/search", electorHandler.Search)
			electors.POST("/family", electorHandler.Family)
		}
		v1.GET("/stats", electorHandler.Stats)
		v1.GET("/transliterate", translitHandler.Transliterate)

		missing := v1.Group("/missing", middleware.RequireRole(models.RoleOperator))
		{
			missing.GET("", missingHandler.List)
			missing.POST("/:id/candidates", missingHandler.Candidates)
			missing.POST("/:id/mark", missingHandler.Mark)
			missing.POST("/:id/map", missingHandler.Map)
			missing.POST("/:id/unmark", missingHandler.Unmark)
		}

		console := v1.Group("/console", middleware.RequireRole(models.RoleViewer))
		{
			console.POST("/execute", consoleHandler.Execute)
			console.POST("/export", consoleHandler.Export)
			console.POST("/risk", consoleHandler.Risk)
			console.POST("/generate", consoleHandler.Generate)
			console.POST("/import", consoleHandler.Import)
			console.GET("/tables", consoleHandler.Tables)
			console.GET("/tables/:table/columns", consoleHandler.Columns)

			console.GET("/saved", consoleHandler.ListSaved)
			console.POST("/saved", consoleHandler.CreateSaved)
			console.GET("/saved/groups", consoleHandler.SavedGroups)
			console.GET("/saved/:id", consoleHandler.GetSaved)
			console.PUT("/saved/:id", consoleHandler.UpdateSaved)
			console.DELETE("/saved/:id", consoleHandler.DeleteSaved)
			console.PUT("/saved/:id/order", consoleHandler.SetSavedOrder)
			console.POST("/saved/:id/move", consoleHandler.MoveSaved)
			console.GET("/saved/:id/export", consoleHandler.ExportSaved)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
