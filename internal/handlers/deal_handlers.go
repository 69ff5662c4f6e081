package handlers

import (
	"errors"
	"net/http"
	"time"

	"tiny_crm_backend/internal/models"
	"tiny_crm_backend/internal/repositories"
	"tiny_crm_backend/internal/services"
	"tiny_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DealHandler holds the deal service.
type DealHandler struct {
	dealService services.DealService
}

// NewDealHandler creates a new DealHandler.
func NewDealHandler(ds services.DealService) *DealHandler {
	return &DealHandler{dealService: ds}
}

// CreateDeal handles the creation of a new deal against an active client.
func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req services.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateDeal: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	deal, err := h.dealService.CreateDeal(req)
	if err != nil {
		utils.LogError(err, "CreateDeal: Error from dealService.CreateDeal")
		if errors.Is(err, services.ErrClientNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
		} else if errors.Is(err, services.ErrDealValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create deal.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, deal)
}

// UpdateDeal handles a full-field update of an existing deal.
func (h *DealHandler) UpdateDeal(c *gin.Context) {
	idStr := c.Param("id")
	dealID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid deal ID format.")
		return
	}

	var req services.UpdateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateDeal: Failed to bind JSON for ID "+idStr)
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	deal, err := h.dealService.UpdateDeal(dealID, req)
	if err != nil {
		utils.LogError(err, "UpdateDeal: Error from dealService.UpdateDeal for ID "+idStr)
		if errors.Is(err, services.ErrDealNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Deal not found.", err.Error()))
		} else if errors.Is(err, services.ErrDealValidation) || errors.Is(err, services.ErrDateFormat) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update deal.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, deal)
}

// GetDeals handles listing every deal, unfiltered.
func (h *DealHandler) GetDeals(c *gin.Context) {
	deals, err := h.dealService.GetDeals()
	if err != nil {
		utils.LogError(err, "GetDeals: Error from dealService.GetDeals")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch deals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, deals)
}

// SearchDeals handles filtered deal search. All filters are optional and
// compose with AND; an empty result is a normal 200 with an empty list.
func (h *DealHandler) SearchDeals(c *gin.Context) {
	filter, err := parseDealFilter(c)
	if err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	deals, err := h.dealService.SearchDeals(filter)
	if err != nil {
		utils.LogError(err, "SearchDeals: Error from dealService.SearchDeals")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search deals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, deals)
}

// parseDealFilter validates the search query parameters and builds the
// repository filter. Unknown enum values, malformed ids and malformed dates
// are rejected at this boundary.
func parseDealFilter(c *gin.Context) (repositories.DealFilter, error) {
	var filter repositories.DealFilter

	if p := utils.NewNullString(c.Query("status")); p != nil {
		status := models.WorkflowStatus(*p)
		if !status.IsValid() {
			return filter, errors.New("unknown status value: " + *p)
		}
		filter.Status = &status
	}
	if p := utils.NewNullString(c.Query("payment_status")); p != nil {
		paymentStatus := models.PaymentStatus(*p)
		if !paymentStatus.IsValid() {
			return filter, errors.New("unknown payment_status value: " + *p)
		}
		filter.PaymentStatus = &paymentStatus
	}
	if p := utils.NewNullString(c.Query("category")); p != nil {
		category := models.ProcedureCategory(*p)
		if !category.IsValid() {
			return filter, errors.New("unknown category value: " + *p)
		}
		filter.Category = &category
	}
	if p := utils.NewNullString(c.Query("client_id")); p != nil {
		clientID, err := utils.StrToInt64(*p)
		if err != nil {
			return filter, errors.New("invalid client_id value: " + *p)
		}
		filter.ClientID = &clientID
	}
	if p := utils.NewNullString(c.Query("date_from")); p != nil {
		dateFrom, err := time.Parse("2006-01-02", *p)
		if err != nil {
			return filter, errors.New("invalid date_from value, expected YYYY-MM-DD: " + *p)
		}
		filter.DateFrom = &dateFrom
	}
	if p := utils.NewNullString(c.Query("date_to")); p != nil {
		dateTo, err := time.Parse("2006-01-02", *p)
		if err != nil {
			return filter, errors.New("invalid date_to value, expected YYYY-MM-DD: " + *p)
		}
		filter.DateTo = &dateTo
	}

	return filter, nil
}
