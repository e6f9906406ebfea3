package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Use(cors.Default())

	router.GET("/", handler.Root)
	router.GET("/health", handler.Health)
	router.POST("/properties/search", handler.SearchProperties)
	router.POST("/properties/predict", handler.PredictPrice)
	router.GET("/properties/:id", handler.GetProperty)
	router.GET("/market/trends", handler.GetMarketTrends)
	router.GET("/market/summary", handler.GetMarketSummary)
}
