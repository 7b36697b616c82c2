package routes

import (
	"net/http"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/controllers"
	"github.com/aspireon/storefront/metrics"
	"github.com/aspireon/storefront/middleware"
	"github.com/aspireon/storefront/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter initializes and returns the Gin router with all routes
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(utils.RequestIDMiddleware())
	router.Use(utils.LoggerMiddleware())
	router.Use(utils.RecoveryMiddleware())
	router.Use(utils.CORSMiddleware(cfg.CORSOrigin))
	router.Use(utils.SecurityHeadersMiddleware())
	router.Use(metrics.Middleware())

	// The session cookie carries the session cart id and the sign in token
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		MaxAge:   int(utils.TokenTTL.Seconds()),
		Path:     "/",
		Secure:   cfg.SecureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(utils.SessionName, store))
	router.Use(middleware.SessionCartMiddleware())
	router.Use(middleware.IdentifyUser())

	router.GET("/health", func(c *gin.Context) {
		utils.Success(c, "ok", nil)
	})

	// Provider callbacks are not versioned with the API
	router.POST("/api/webhooks/stripe", controllers.StripeWebhook)

	api := router.Group("/v1")
	{
		initUserRoutes(api)
		initAdminRoutes(api)
	}

	return router
}
