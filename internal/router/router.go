package router

import (
	"database/sql"

	"tiny_crm_backend/internal/handlers"
	"tiny_crm_backend/internal/repositories"
	"tiny_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	clientRepo := repositories.NewClientRepository(db)
	dealRepo := repositories.NewDealRepository(db)

	// Initialize Services
	clientService := services.NewClientService(clientRepo, db)
	dealService := services.NewDealService(dealRepo, clientRepo, db)

	// Initialize Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	dealHandler := handlers.NewDealHandler(dealService)

	SetupClientRoutes(engine, clientHandler)
	SetupDealRoutes(engine, dealHandler)
}
