package routes

import (
	"ditoolz-coins/internal/handlers"
	"ditoolz-coins/internal/middlewares"

	"github.com/go-openapi/runtime/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"time"
)

func InitRoutes(
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	premiumHandler *handlers.PremiumHandler,
	toolsHandler *handlers.ToolsHandler,
	authMiddleware *middlewares.AuthMiddleware,
) *gin.Engine {
	router := gin.Default()

	_ = router.SetTrustedProxies(nil)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.StaticFile("/swagger.yaml", "./swagger.yaml")

	opts := middleware.SwaggerUIOpts{SpecURL: "/swagger.yaml"}
	sh := middleware.SwaggerUI(opts, nil)

	router.GET("/swagger/*any", func(c *gin.Context) {
		sh.ServeHTTP(c.Writer, c.Request)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// public routes
	api.POST("/auth", authHandler.Auth)
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	api.GET("/packages", walletHandler.ListPackages)

	// protected routes
	api.Use(authMiddleware.Handle())
	{
		api.GET("/wallet", walletHandler.GetWallet)
		api.POST("/wallet/earn-ad", walletHandler.EarnFromAd)
		api.POST("/wallet/purchase/:package", walletHandler.Purchase)
		api.POST("/tools/:tool/use", toolsHandler.UseTool)
		api.GET("/tools/:tool/access", toolsHandler.CheckAccess)
		api.POST("/premium/convert", premiumHandler.Convert)
		api.POST("/premium/confirm", premiumHandler.Confirm)
	}

	return router
}
