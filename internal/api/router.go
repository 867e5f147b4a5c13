package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/clientdesk/clientdesk/internal/app"
	iauth "github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/cache"
	"github.com/clientdesk/clientdesk/internal/handlers"
	"github.com/clientdesk/clientdesk/internal/middleware"
	"github.com/clientdesk/clientdesk/internal/services"
)

// Deps bundles the shared components the router wires into handlers.
type Deps struct {
	DB        *gorm.DB
	Cache     cache.Store
	Sessions  *iauth.SessionService
	Users     *services.UserService
	Customers *services.CustomerService
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps, cfg *app.Config) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if deps.Users == nil || deps.Customers == nil {
		return nil, fmt.Errorf("services must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	// Health endpoint (public)
	r.GET("/health", handlers.Health(deps.DB, deps.Cache))

	authHandler := handlers.NewAuthHandler(deps.Sessions)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	requireAuth := middleware.Auth(deps.Sessions)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	// Customers
	customerHandler := handlers.NewCustomerHandler(deps.Customers)
	customers := api.Group("/customers")
	{
		customers.GET("", customerHandler.List)
		customers.GET("/stats", customerHandler.Stats)
		customers.GET("/:id", customerHandler.Get)
		customers.POST("", customerHandler.Create)
		customers.PUT("/:id", customerHandler.Update)
		customers.DELETE("/:id", customerHandler.Delete)
	}

	// Users
	userHandler := handlers.NewUserHandler(deps.Users)
	users := api.Group("/users")
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	// Metrics endpoint
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
