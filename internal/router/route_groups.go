package router

import (
	"tiny_crm_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client routes.
// The static /search and /inactive paths coexist with the /:id parameter
// route; gin resolves static segments first.
func SetupClientRoutes(engine *gin.Engine, clientHandler *handlers.ClientHandler) {
	clientRoutes := engine.Group("/clients")
	{
		clientRoutes.POST("/", clientHandler.CreateClient)
		clientRoutes.GET("/", clientHandler.GetClients)
		clientRoutes.GET("/search", clientHandler.SearchClients)
		clientRoutes.GET("/inactive", clientHandler.GetInactiveClients)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.DELETE("/:id", clientHandler.DeactivateClient)
	}
}

// SetupDealRoutes sets up the deal routes.
func SetupDealRoutes(engine *gin.Engine, dealHandler *handlers.DealHandler) {
	dealRoutes := engine.Group("/deals")
	{
		dealRoutes.POST("", dealHandler.CreateDeal)
		dealRoutes.PUT("/:id", dealHandler.UpdateDeal)
		dealRoutes.GET("/", dealHandler.GetDeals)
		dealRoutes.GET("/search", dealHandler.SearchDeals)
	}
}
