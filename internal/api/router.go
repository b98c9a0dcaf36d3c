package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/smartwater/monitoring-api/internal/api/handler"
	"github.com/smartwater/monitoring-api/internal/api/middleware"
	"github.com/smartwater/monitoring-api/internal/core/domain"
	"github.com/smartwater/monitoring-api/internal/core/service"
	mongodb "github.com/smartwater/monitoring-api/internal/infrastructure/db/mongo"
	redisdb "github.com/smartwater/monitoring-api/internal/infrastructure/db/redis"
	"github.com/smartwater/monitoring-api/internal/infrastructure/queue"
	"github.com/smartwater/monitoring-api/internal/pkg/config"
	"github.com/smartwater/monitoring-api/internal/token"
)

// NewRouter builds the Echo instance with all routes registered and returns it
// together with the ingestion dispatcher (started by the caller).
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("monitoring"))

	// --- Dependencies ---
	grants := domain.DefaultGrants()
	tokens := token.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	userRepo := mongodb.NewUserRepository(db)
	measurementRepo := mongodb.NewMeasurementRepository(db)
	dedup := redisdb.NewDedupChecker(rdb)

	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, log)
	measurementService := service.NewMeasurementService(measurementRepo, log)
	ingestService := service.NewIngestService(measurementRepo, dedup, log)
	dispatcher := queue.NewDispatcher(0, ingestService, log)

	authHandler := handler.NewAuthHandler(authService, tokens)
	userHandler := handler.NewUserHandler(userService)
	measurementHandler := handler.NewMeasurementHandler(measurementService, dispatcher)
	catalogHandler := handler.NewCatalogHandler(measurementService)

	authRequired := middleware.Auth(tokens)
	readRequired := middleware.Permission(grants, domain.PermissionRead)
	writeRequired := middleware.Permission(grants, domain.PermissionWrite)
	manageUsers := middleware.Permission(grants, domain.PermissionManageUsers)

	// --- Auth routes ---
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/refresh", authHandler.Refresh)
	e.GET("/api/auth/me", authHandler.Me, authRequired)
	e.POST("/api/auth/logout", authHandler.Logout, authRequired)

	// --- User management (admin only) ---
	e.GET("/api/users", userHandler.List, authRequired, manageUsers)
	e.POST("/api/users", userHandler.Create, authRequired, manageUsers)
	e.PUT("/api/users/:id", userHandler.Update, authRequired, manageUsers)
	e.DELETE("/api/users/:id", userHandler.Delete, authRequired, manageUsers)

	// --- Monitoring data: reads ---
	e.GET("/api/types", catalogHandler.Types, authRequired, readRequired)
	e.GET("/api/instruments", catalogHandler.Instruments, authRequired, readRequired)
	e.GET("/api/measurements", measurementHandler.List, authRequired, readRequired)
	e.GET("/api/measurements/summary", measurementHandler.Summary, authRequired, readRequired)
	e.GET("/api/statistics", measurementHandler.Statistics, authRequired, readRequired)

	// --- Monitoring data: writes ---
	e.POST("/api/measurements", measurementHandler.Create, authRequired, writeRequired)
	e.POST("/api/measurements/batch", measurementHandler.CreateBatch, authRequired, writeRequired)
	e.PUT("/api/measurements/:id", measurementHandler.Update, authRequired, writeRequired)
	e.DELETE("/api/measurements/:id", measurementHandler.Delete, authRequired, writeRequired)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, dispatcher
}
