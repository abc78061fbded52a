package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/task-tracker/internal/api/handler"
	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/service"
	mongodb "github.com/taskhive/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/task-tracker/internal/infrastructure/db/redis"
	"github.com/taskhive/task-tracker/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes
// registered. rdb may be nil, in which case the login throttle is off.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Env != "production")

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("tasktracker"))
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)

	var throttle service.LoginThrottle
	if rdb != nil {
		throttle = redisdb.NewLoginThrottle(rdb)
	}

	authService := service.NewAuthService(userRepo, throttle, cfg.JWTSecret, cfg.JWTTTL, log)
	taskService := service.NewTaskService(taskRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)
	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- Routes ---
	apiGroup := e.Group("/api")

	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)
	apiGroup.GET("/health", healthHandler.Liveness)
	apiGroup.GET("/health/ready", readinessHandler.Readiness)

	auth := apiGroup.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, authMiddleware)

	tasks := apiGroup.Group("/tasks", authMiddleware)
	tasks.GET("", taskHandler.List)
	tasks.GET("/stats", taskHandler.Stats)
	tasks.GET("/:id", taskHandler.Get)
	tasks.POST("", taskHandler.Create)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	return e
}
