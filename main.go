package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"linkdash-be/internal/cache"
	"linkdash-be/internal/clicks"
	"linkdash-be/internal/config"
	"linkdash-be/internal/controllers"
	"linkdash-be/internal/database"
	"linkdash-be/internal/mailer"
	"linkdash-be/internal/middleware"
	"linkdash-be/internal/realtime"
	"linkdash-be/internal/repository"
	"linkdash-be/internal/service"
	"linkdash-be/internal/session"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Missing required configuration is fatal to the affected routes
	// only; the process still serves and reports the problem per route.
	var storeErr error
	if cfg.DatabaseURL == "" {
		storeErr = errors.New("Missing DATABASE_URL in environment.")
		log.Println("Warning: DATABASE_URL not set; store-backed routes will return 500")
	}
	authErr := storeErr
	if cfg.JWTSecret == "" {
		authErr = errors.New("Missing JWT_SECRET in environment.")
		log.Println("Warning: JWT_SECRET not set; authenticated routes will return 500")
	}

	// Connect to database
	var accountant *clicks.Accountant
	var hub *realtime.Hub
	var linkService service.LinkService
	var resolverService service.ResolverService
	var authService service.AuthService

	var jwtService *session.JWTService
	cookieMaxAge := cfg.SessionTTL * 3600
	if cfg.JWTSecret != "" {
		jwtService = session.NewJWTService(cfg.JWTSecret, time.Duration(cfg.SessionTTL)*time.Hour)
		cookieMaxAge = int(jwtService.AccessTTL().Seconds())
	}

	if cfg.DatabaseURL != "" {
		db, err := database.NewConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Run database migrations
		if err := database.RunMigrations(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		// Initialize Redis cache (optional - continue if Redis is unavailable)
		var cacheClient cache.Cache
		if cfg.RedisURL != "" {
			cacheClient, err = cache.NewRedisCache(cfg.RedisURL)
			if err != nil {
				log.Printf("Warning: Failed to connect to Redis (%v). Continuing without cache.", err)
				cacheClient = nil
			} else {
				log.Println("Connected to Redis cache")
			}
		}

		// Initialize repositories
		linkRepo := repository.NewLinkRepository(db)
		userRepo := repository.NewUserRepository(db)
		analyticsRepo := repository.NewAnalyticsRepository(db)
		tokenRepo := repository.NewTokenRepository(db)

		// Click accounting runs in the background; the redirect response
		// never waits on it.
		accountant = clicks.NewAccountant(linkRepo, analyticsRepo, cfg.ClickWorkers, cfg.ClickQueue)

		resolverService = service.NewResolverService(linkRepo, accountant, cacheClient)
		linkService = service.NewLinkService(linkRepo, userRepo, cacheClient, cfg.SiteOrigin)

		var mail mailer.Mailer
		if cfg.SMTPAddr != "" {
			mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPFrom)
		} else {
			log.Println("Warning: SMTP_ADDR not set; magic links will be logged instead of mailed")
			mail = mailer.NewLogMailer()
		}

		if jwtService != nil {
			authService = service.NewAuthService(
				userRepo, tokenRepo, jwtService, mail,
				cfg.SiteOrigin, time.Duration(cfg.MagicLinkTTL)*time.Minute,
			)
		}

		// Realtime change feed (optional - continue if listen fails)
		feed, err := realtime.NewPostgresFeed(cfg.DatabaseURL)
		if err != nil {
			log.Printf("Warning: Failed to start realtime feed (%v). Continuing without realtime.", err)
		} else {
			hub = realtime.NewHub(feed)
		}
	}

	// Initialize controllers
	resolverController := controllers.NewResolverController(resolverService, storeErr)
	linkController := controllers.NewLinkController(linkService, storeErr)
	authController := controllers.NewAuthController(authService, cookieMaxAge, authErr)
	eventsController := controllers.NewEventsController(linkService, hub, storeErr)
	qrcodeController := controllers.NewQRCodeController(linkService, cfg.SiteOrigin, storeErr)

	// Create a Gin router
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"measurement_id": cfg.MeasurementID,
		})
	})

	// Fallback page for unresolvable slugs. Served statically so the
	// resolver's fallback redirect cannot loop.
	router.GET(controllers.FallbackPath, func(c *gin.Context) {
		c.String(http.StatusNotFound, "This short link does not exist.")
	})

	router.GET("/auth/confirm", authController.Confirm)

	api := router.Group("/api")
	{
		api.POST("/auth/magic-link", authController.MagicLink)
		api.POST("/auth/session", authController.Session)

		// Protected routes - require a valid session
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.POST("/auth/logout", authController.Logout)
			protected.GET("/me", authController.Me)

			protected.POST("/links", linkController.Create)
			protected.GET("/links", linkController.List)
			protected.GET("/links/:id", linkController.Get)
			protected.PATCH("/links/:id", linkController.Update)
			protected.DELETE("/links/:id", linkController.Delete)
			protected.GET("/links/:id/events", eventsController.Stream)
			protected.GET("/links/:id/qrcode", qrcodeController.Generate)

			protected.GET("/analytics", linkController.Analytics)
		}
	}

	// Redirect endpoint last; static routes above win over the wildcard.
	router.GET("/:slug", resolverController.Redirect)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Explicit teardown: stop intake, drain click accounting, close the
	// realtime feed, then the database (deferred).
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}

	if hub != nil {
		if err := hub.Close(); err != nil {
			log.Printf("Warning: realtime shutdown: %v", err)
		}
	}
	if accountant != nil {
		accountant.Close()
	}
}
