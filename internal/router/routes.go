package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stayhaven/rentals/api/internal/auth"
	"github.com/stayhaven/rentals/api/internal/config"
	"github.com/stayhaven/rentals/api/internal/handler"
	middlewarepkg "github.com/stayhaven/rentals/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserAdminHandler
	Listings     *handler.ListingsHandler
	Reservations *handler.ReservationsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/register", handlers.Auth.Register)
	e.POST("/auth/login", handlers.Auth.Login)

	// Browsing is anonymous; only publication and host views need identity.
	e.GET("/listings", handlers.Listings.List)
	e.GET("/listings/:id", handlers.Listings.GetByID)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/listings", handlers.Listings.Create, middlewarepkg.PublishRateLimiter(cfg.RateLimitPublish))
	secured.GET("/reservations", handlers.Reservations.List)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.GET("/users", handlers.Users.List)
	admin.POST("/users", handlers.Users.Create)
	admin.PATCH("/users/:id", handlers.Users.Update)
	admin.DELETE("/users/:id", handlers.Users.Delete)
}
