package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campushub/campushub-api/config"
	"github.com/campushub/campushub-api/internal/cache"
	"github.com/campushub/campushub-api/internal/handlers"
	"github.com/campushub/campushub-api/internal/middleware"
	"github.com/campushub/campushub-api/internal/repository"
	"github.com/campushub/campushub-api/internal/schedule"
	"github.com/campushub/campushub-api/internal/services"
	"github.com/campushub/campushub-api/internal/sweeper"
	"github.com/campushub/campushub-api/pkg/db"
	"github.com/campushub/campushub-api/pkg/httpclient"
	"github.com/campushub/campushub-api/pkg/logger"
	"github.com/campushub/campushub-api/pkg/metrics"
	"github.com/campushub/campushub-api/pkg/profiling"
	"github.com/campushub/campushub-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerMentoringRoutes registers the mentoring request and session routes
func registerMentoringRoutes(
	group *gin.RouterGroup,
	readLimiter, writeLimiter *middleware.RateLimiter,
	mentoringHandler *handlers.MentoringHandler,
	sessionHandler *handlers.SessionHandler,
) {
	group.POST("/mentoring/requests", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), mentoringHandler.CreateRequest)

	mentors := group.Group("/mentors/:mentorId")
	mentors.GET("/requests", readLimiter.Middleware(), mentoringHandler.GetRequests)
	mentors.GET("/requests/:id", readLimiter.Middleware(), mentoringHandler.GetRequestByID)
	mentors.POST("/requests/:id/accept", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), mentoringHandler.AcceptRequest)
	mentors.POST("/requests/:id/decline", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), mentoringHandler.DeclineRequest)
	mentors.POST("/requests/:id/complete", writeLimiter.Middleware(), mentoringHandler.CompleteRequest)

	sessions := group.Group("/mentoring/sessions")
	sessions.POST("", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), sessionHandler.CreateSession)
	sessions.GET("/:id", readLimiter.Middleware(), sessionHandler.GetSession)
	sessions.POST("/:id/reschedule", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), sessionHandler.RescheduleSession)
	sessions.POST("/:id/confirm", writeLimiter.Middleware(), sessionHandler.ConfirmSession)
	sessions.POST("/:id/complete", writeLimiter.Middleware(), sessionHandler.CompleteSession)
	sessions.POST("/:id/cancel", writeLimiter.Middleware(), sessionHandler.CancelSession)
}

// registerTutoringRoutes registers the tutoring availability and booking routes
func registerTutoringRoutes(
	group *gin.RouterGroup,
	readLimiter, writeLimiter *middleware.RateLimiter,
	availabilityHandler *handlers.AvailabilityHandler,
	bookingHandler *handlers.BookingHandler,
) {
	group.GET("/tutors/:tutorId/availability", readLimiter.Middleware(), availabilityHandler.ListSlots)

	availability := group.Group("/tutoring/availability")
	availability.POST("", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), availabilityHandler.CreateSlot)
	availability.GET("/:id", readLimiter.Middleware(), availabilityHandler.GetSlot)
	availability.PUT("/:id", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), availabilityHandler.UpdateSlot)

	bookings := group.Group("/tutoring/bookings")
	bookings.POST("", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), bookingHandler.CreateBooking)
	bookings.GET("/:id", readLimiter.Middleware(), bookingHandler.GetBooking)
	bookings.POST("/:id/reschedule", writeLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), bookingHandler.RescheduleBooking)
	bookings.POST("/:id/cancel", writeLimiter.Middleware(), bookingHandler.CancelBooking)
	bookings.POST("/:id/complete-session", writeLimiter.Middleware(), bookingHandler.CompleteSession)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting CampusHub API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.AlloyEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize continuous profiling when enabled
	if cfg.Profiling.Enabled {
		stopProfiler, profErr := profiling.InitProfiler(
			cfg.Profiling,
			cfg.Observability.ServiceName,
			cfg.Observability.ServiceNamespace,
			cfg.Observability.ServiceVersion,
			cfg.Observability.ServiceInstanceID,
			cfg.Server.AppEnv,
		)
		if profErr != nil {
			logger.Fatal("Failed to initialize profiler", zap.Error(profErr))
		}
		defer stopProfiler()
	}

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command
	// Run migrations before starting the app: ./migrate or docker-compose run migrate

	// Initialize repositories
	personRepo := repository.NewPersonRepository(pool)
	requestRepo := repository.NewMentoringRequestRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	commitmentRepo := repository.NewCommitmentRepository(pool)

	// Availability read path: cached unless disabled
	var availabilityReader services.AvailabilityReader
	var availabilityInvalidator services.AvailabilityInvalidator
	if cfg.Cache.DisableAvailabilityCache {
		logger.Warn("Availability cache is DISABLED - reading from database on every request")
		availabilityReader = services.NewRepoReader(availabilityRepo)
		availabilityInvalidator = services.NoopInvalidator{}
	} else {
		availabilityCache := cache.NewAvailabilityCache(availabilityRepo, cfg.Cache.AvailabilityTTLSeconds)
		availabilityReader = availabilityCache
		availabilityInvalidator = availabilityCache
	}

	// Conflict resolver shared by both subsystems
	resolver := schedule.NewResolver(schedule.Policy{
		PendingBlocks: cfg.Scheduling.PendingBlocks,
	})

	// Initialize HTTP client for webhook triggers
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	mentoringService := services.NewMentoringService(requestRepo, sessionRepo, personRepo, resolver, cfg, httpClient)
	sessionService := services.NewSessionService(sessionRepo, personRepo, resolver)
	availabilityService := services.NewAvailabilityService(availabilityRepo, personRepo, availabilityReader, availabilityInvalidator)
	bookingService := services.NewBookingService(bookingRepo, availabilityRepo, personRepo, resolver)
	scheduleService := services.NewScheduleService(commitmentRepo, resolver)
	expiryService := services.NewExpiryService(requestRepo)

	// Initialize handlers
	mentoringHandler := handlers.NewMentoringHandler(mentoringService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	sweepHandler := handlers.NewSweepHandler(expiryService)
	healthHandler := handlers.NewHealthHandler(pool.Ping)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName)) // OpenTelemetry tracing
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS configuration - SECURITY: Only allow specific origins
	allowedOrigins := cfg.Server.AllowedOrigins
	// Allow localhost in development
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-internal-api-auth-token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// SECURITY: Rate limiters to prevent abuse and DoS attacks
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	writeRateLimiter := middleware.NewRateLimiter(10, 20)     // 10 req/sec, burst of 20 for booking writes

	// API routes
	api := router.Group("/api")
	// Utility endpoints (not versioned - operational endpoints)
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// API v1 routes, all behind the internal token: this service only talks
	// to the platform's own backends
	v1 := router.Group("/api/v1")
	v1.Use(middleware.InternalAPIAuthMiddleware(cfg.Auth.InternalAPIToken))
	registerMentoringRoutes(v1, generalRateLimiter, writeRateLimiter, mentoringHandler, sessionHandler)
	registerTutoringRoutes(v1, generalRateLimiter, writeRateLimiter, availabilityHandler, bookingHandler)
	v1.POST("/schedule/check", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), scheduleHandler.CheckConflicts)
	v1.POST("/internal/expiry/sweep", generalRateLimiter.Middleware(), sweepHandler.Sweep)

	// Background expiry sweeper
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.New(expiryService, cfg.Scheduling.SweepInterval).Run(sweeperCtx)

	// Create HTTP server
	// SECURITY: Bind to all interfaces for Docker Compose networking
	// Network isolation is enforced by Docker Compose (backend has no public ports)
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // SECURITY: 1 MB max header size
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopSweeper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
