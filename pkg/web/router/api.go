package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"workbuddy-store/pkg/common/config"
	"workbuddy-store/pkg/core/catalog"
	"workbuddy-store/pkg/web/handler"
	"workbuddy-store/pkg/web/middleware"
	"workbuddy-store/pkg/web/session"
)

// Dependencies are the services behind the routes.
type Dependencies struct {
	Users        handler.Credentials
	Sessions     *session.Store
	Catalog      *catalog.Service
	HealthChecks []handler.ComponentCheck
}

// RegisterAPIs installs the middleware chain and every route.
func RegisterAPIs(h *server.Hertz, cfg *config.Config, deps Dependencies) {
	healthHandler := handler.NewHealthCheckHandler(deps.HealthChecks...)
	userHandler := handler.NewUserHandler(deps.Users, cfg.Middleware.JWT)
	registrationHandler := handler.NewRegistrationHandler(deps.Sessions)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)

	// order matters: recovery must wrap everything else
	h.Use(
		middleware.RecoveryMiddleware(cfg),
		middleware.LoggerMiddleware(),
		middleware.SecurityCheckMiddleware(cfg.Middleware.Security),
		middleware.TimeoutMiddleware(cfg.Middleware.Timeout.RequestTimeout),
		middleware.CORSMiddleware(cfg.Middleware.CORS),
		middleware.RateLimitMiddleware(
			cfg.Middleware.RateLimit.Rate,
			cfg.Middleware.RateLimit.Interval,
		),
	)

	h.GET("/health", healthHandler.AdvancedHealthCheck)

	apiGroup := h.Group("/api/v1")
	{
		registrations := apiGroup.Group("/registrations")
		{
			registrations.POST("", registrationHandler.Create)
			registrations.GET("/:id", registrationHandler.Get)
			registrations.PUT("/:id/fields", registrationHandler.UpdateField)
			registrations.POST("/:id/advance", registrationHandler.Advance)
			registrations.POST("/:id/back", registrationHandler.Back)
			registrations.POST("/:id/submit", registrationHandler.Submit)
			registrations.POST("/:id/visibility", registrationHandler.ToggleVisibility)
			registrations.POST("/:id/resend", registrationHandler.ResendCode)
		}

		products := apiGroup.Group("/products")
		{
			products.GET("", catalogHandler.Products)
			products.GET("/sections", catalogHandler.Sections)
		}

		userGroup := apiGroup.Group("/users")
		{
			userGroup.POST("/login", userHandler.Login)

			userGroup.Use(middleware.JWTAuthMiddleware(&cfg.Middleware.JWT))
			userGroup.PUT("/password", userHandler.ChangePassword)
		}
	}
}
