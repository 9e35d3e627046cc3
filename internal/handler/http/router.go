// Package http wires the gin router: route registration, the response
// envelope and the request handlers.
package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zemanluky/cz.uun-shopping-list.be/internal/config"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/handler/http/middleware"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/infrastructure/ratelimit"
	"github.com/zemanluky/cz.uun-shopping-list.be/internal/service"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	AuthService *service.AuthService
	Users       *service.UserService
	Lists       *service.ShoppingListService
	Items       *service.ShoppingListItemService
	Members     *service.ShoppingListMemberService
	RateLimiter *ratelimit.Limiter
	Registry    *prometheus.Registry
}

// NewRouter builds the gin engine with all middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.RequestLogging(deps.Logger))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if deps.Config.Metrics.Enabled && deps.Registry != nil {
		metrics := middleware.NewMetrics(deps.Registry)
		router.Use(metrics.Handler())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(deps.AuthService, deps.Config.Auth, deps.Config.JWT, deps.Logger)
	userHandler := NewUserHandler(deps.Users, deps.Logger)
	listHandler := NewShoppingListHandler(deps.Lists, deps.Logger)
	itemHandler := NewShoppingListItemHandler(deps.Items, deps.Logger)
	memberHandler := NewShoppingListMemberHandler(deps.Members, deps.Logger)

	requireAuth := middleware.Auth(deps.AuthService, deps.Logger)
	optionalAuth := middleware.OptionalAuth(deps.AuthService, deps.Logger)
	loginLimit := middleware.RateLimit(deps.RateLimiter, deps.Config.Security.LoginLimit, deps.Logger)

	auth := router.Group("/auth")
	{
		auth.POST("/login", loginLimit, authHandler.Login)
		auth.GET("/refresh", authHandler.Refresh)
		auth.DELETE("/logout", authHandler.Logout)
		auth.GET("/identity", requireAuth, authHandler.Identity)
	}

	user := router.Group("/user")
	{
		user.POST("/registration", userHandler.Register)
		user.GET("/registration/availability", optionalAuth, userHandler.CheckAvailability)
		user.GET("", requireAuth, userHandler.Search)
		user.GET("/:id", requireAuth, userHandler.GetUser)
		user.PUT("/profile", requireAuth, userHandler.UpdateProfile)
	}

	lists := router.Group("/shopping-list", requireAuth)
	{
		lists.GET("", listHandler.List)
		lists.POST("", listHandler.Create)
		lists.GET("/:id", listHandler.GetDetail)
		lists.PUT("/:id", listHandler.Update)
		lists.PATCH("/:id/completed-status", listHandler.Close)
		lists.DELETE("/:id", listHandler.Delete)

		lists.POST("/:id/item", itemHandler.Create)
		lists.PUT("/:id/item/:itemId", itemHandler.Update)
		lists.DELETE("/:id/item/:itemId", itemHandler.Delete)
		lists.PATCH("/:id/item/:itemId/completed-status", itemHandler.ChangeCompletion)

		lists.POST("/:id/member", memberHandler.Add)
		lists.PATCH("/:id/member/:memberId/permission", memberHandler.ModifyPermission)
		lists.DELETE("/:id/member/:memberId", memberHandler.Remove)
	}

	return router
}
