package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/staffdesk/identity-api/internal/api/handler"
	"github.com/staffdesk/identity-api/internal/api/middleware"
	"github.com/staffdesk/identity-api/internal/core/domain"
	"github.com/staffdesk/identity-api/internal/core/service"
	"github.com/staffdesk/identity-api/internal/infrastructure/config"
	redisinfra "github.com/staffdesk/identity-api/internal/infrastructure/db/redis"
	"github.com/staffdesk/identity-api/internal/infrastructure/db/snapshot"
	"github.com/staffdesk/identity-api/internal/infrastructure/presence"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil, in which case rate limiting is disabled.
func NewRouter(
	cfg *config.Config,
	store *snapshot.Store,
	tracker *presence.Tracker,
	rdb *redis.Client,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Rate limiting (general API budget plus a strict one on auth) ---
	var apiLimiter, authLimiter middleware.Limiter
	if rdb != nil {
		apiLimiter = redisinfra.NewFixedWindowLimiter(rdb, cfg.RateLimit.APILimit, cfg.RateLimit.Window, log)
		authLimiter = redisinfra.NewFixedWindowLimiter(rdb, cfg.RateLimit.AuthLimit, cfg.RateLimit.Window, log)
	}

	// --- Dependencies ---
	authService := service.NewAuthService(store, tracker, cfg.JWTSecret, 24*time.Hour, log)
	userService := service.NewUserService(store, store, tracker, log)
	groupService := service.NewGroupService(store, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	groupHandler := handler.NewGroupHandler(groupService)

	authenticated := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	superAdminOnly := middleware.RequireRole(domain.RoleSuperAdmin)

	// --- Public API ---
	api := e.Group("/api", middleware.RateLimit(apiLimiter, "api"))
	api.POST("/register", authHandler.Register, middleware.RateLimit(authLimiter, "auth"))
	api.POST("/login", authHandler.Login, middleware.RateLimit(authLimiter, "auth"))
	api.POST("/logout", authHandler.Logout)
	api.GET("/users/status", userHandler.PublicStatus)

	// --- Groups (authenticated; mutations require adm) ---
	groups := api.Group("/groups", authenticated)
	groups.GET("", groupHandler.List)
	groups.POST("", groupHandler.Create, adminOnly)
	groups.DELETE("/:id", groupHandler.Delete, adminOnly)

	// --- Admin surface ---
	admin := api.Group("/admin", authenticated)
	admin.GET("/users", userHandler.AdminUsers, adminOnly)
	admin.POST("/toggle-role", userHandler.ToggleRole, adminOnly)
	admin.POST("/toggle-status", userHandler.ToggleActive, adminOnly)
	admin.PUT("/user/:id", userHandler.UpdateUser, adminOnly)

	// --- Super-admin surface ---
	admin.DELETE("/user/:id", userHandler.DeleteUser, superAdminOnly)
	admin.POST("/system-reset", userHandler.SystemReset, superAdminOnly)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(store, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
