package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/client"
	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/http/handler"
	"github.com/meomeocoj/user-intent-classisifer/internal/adapter/http/middleware"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/repository"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/cache"
	"github.com/meomeocoj/user-intent-classisifer/internal/usecase"
)

// Dependencies holds everything the HTTP surface consumes. DecisionRepo,
// DecisionCache, DB and Redis may be nil; the service degrades to routing
// without an audit log or cache.
type Dependencies struct {
	RouteUC       usecase.RouteUsecase
	DecisionRepo  repository.DecisionRepository
	DecisionCache *cache.DecisionCache
	Classifier    *client.MLClient
	Guard         *client.MLClient
	DB            *gorm.DB
	Redis         *redis.Client
	Logger        *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps *Dependencies) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Classifier, deps.Guard, deps.DB, deps.Redis)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize handlers
	routeHandler := handler.NewRouteHandler(deps.RouteUC, deps.DecisionCache)
	decisionHandler := handler.NewDecisionHandler(deps.DecisionRepo)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/route", routeHandler.Route)
		v1.GET("/decisions", decisionHandler.List)
		v1.GET("/decisions/stats", decisionHandler.Stats)
	}

	return router
}
