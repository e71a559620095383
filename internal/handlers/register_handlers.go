package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/dailybalance/cmd/docs"
	portssvc "github.com/SscSPs/dailybalance/internal/core/ports/services"
	"github.com/SscSPs/dailybalance/internal/middleware"
	"github.com/SscSPs/dailybalance/internal/platform/config"
	"github.com/SscSPs/dailybalance/internal/utils"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	chatLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, chatLimiter, posthogClient)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	chatLimiter *limiter.Limiter,
	posthogClient *utils.PosthogClientWrapper,
) {
	// Every v1 route is authenticated and tracked
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.PosthogMiddleware(posthogClient),
	)

	// Ledger and settlement routes share the ledger service
	RegisterLedgerRoutes(v1, services.Ledger)
	RegisterSettlementRoutes(v1, services.Ledger)
	if services.Events != nil {
		RegisterEventRoutes(v1, services.Events)
	}
	// Chat is only available when a model provider is configured
	if services.Chat != nil {
		RegisterChatRoutes(v1, services.Chat, chatLimiter)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
