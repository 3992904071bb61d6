package router

import (
	"net/http"
	"time"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter assembles the HTTP surface
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware(cfg.Server.ClientOrigin))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiGroup := r.Group("/api")

	// liveness probe, outside the auth gate
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := api.NewAuthHandler(cfg)
	auth := apiGroup.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
	}

	// everything below requires a valid bearer token
	authorized := apiGroup.Group("")
	authorized.Use(middleware.JWTAuth())
	{
		authorized.GET("/auth/validate", authHandler.Validate)

		categoryHandler := api.NewCategoryHandler()
		categories := authorized.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/type/:type", categoryHandler.ListByType)
			categories.POST("", categoryHandler.Create)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		transactionHandler := api.NewTransactionHandler()
		summaryHandler := api.NewSummaryHandler()
		transactions := authorized.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/date-range", transactionHandler.ListByDateRange)
			transactions.GET("/type/:type", transactionHandler.ListByType)
			transactions.GET("/monthly/:year/:month", transactionHandler.ListByMonth)
			transactions.GET("/summary", summaryHandler.Current)
			transactions.GET("/summary/:year/:month", summaryHandler.ForMonth)
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.Get)
			transactions.PUT("/:id", transactionHandler.Update)
			transactions.DELETE("/:id", transactionHandler.Delete)
		}

		exportHandler := api.NewExportHandler()
		export := authorized.Group("/export")
		{
			export.GET("/csv", exportHandler.ExportCSV)
			export.GET("/json", exportHandler.ExportJSON)
			export.GET("/excel", exportHandler.ExportExcel)
		}
	}

	return r
}

// CORSMiddleware allows the configured client origin to call the API
func CORSMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
