package router

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"brainchat/api/handlers"
	"brainchat/api/middleware"
	"brainchat/config"
	"brainchat/db"
	_ "brainchat/docs"
	"brainchat/services"
)

func New(chatSvc *services.ChatService, rewardSvc *services.RewardService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTrace())
	r.Use(middleware.RequestLogging())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		// Try ping MongoDB
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Landing page
	r.StaticFile("/", filepath.Join(config.GetBasePath(), "static", "index.html"))

	api := r.Group("/api")
	{
		api.POST("/chat", handlers.ChatHandler(chatSvc))
		api.POST("/reward", handlers.RewardHandler(rewardSvc))
	}

	return r
}
