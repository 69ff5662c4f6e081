package handlers

import (
	"errors"
	"net/http"

	"tiny_crm_backend/internal/services"
	"tiny_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	client, err := h.clientService.CreateClient(req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		if errors.Is(err, services.ErrClientValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// GetClients handles listing all active clients.
func (h *ClientHandler) GetClients(c *gin.Context) {
	clients, err := h.clientService.GetActiveClients()
	if err != nil {
		utils.LogError(err, "GetClients: Error from clientService.GetActiveClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch clients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetInactiveClients handles listing all soft-deleted clients.
func (h *ClientHandler) GetInactiveClients(c *gin.Context) {
	clients, err := h.clientService.GetInactiveClients()
	if err != nil {
		utils.LogError(err, "GetInactiveClients: Error from clientService.GetInactiveClients")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch clients.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, clients)
}

// SearchClients handles fuzzy search over active clients.
// Zero matches is a 404, part of the observable contract.
func (h *ClientHandler) SearchClients(c *gin.Context) {
	fragment := c.Query("q")

	clients, err := h.clientService.SearchClients(fragment)
	if err != nil {
		utils.LogError(err, "SearchClients: Error from clientService.SearchClients")
		if errors.Is(err, services.ErrNoClientsFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No clients found.", err.Error()))
		} else if errors.Is(err, services.ErrClientValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search clients.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetClientByID handles fetching a single active client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid client ID format.")
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeactivateClient handles soft-deleting a client.
func (h *ClientHandler) DeactivateClient(c *gin.Context) {
	idStr := c.Param("id")
	clientID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid client ID format.")
		return
	}

	client, err := h.clientService.DeactivateClient(clientID)
	if err != nil {
		utils.LogError(err, "DeactivateClient: Error from clientService.DeactivateClient for ID "+idStr)
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate client.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, client)
}
