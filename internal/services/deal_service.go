package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiny_crm_backend/internal/models"
	"tiny_crm_backend/internal/repositories"
)

// --- Custom Service Errors for Deal ---
var (
	ErrDealNotFound   = errors.New("deal not found")
	ErrDealValidation = errors.New("deal data validation error")
	ErrDateFormat     = errors.New("invalid date format, please use YYYY-MM-DD")
)

// --- Deal DTOs ---

// CreateDealRequest carries the caller-settable deal fields. The derived
// fields (tax_amount, amount_net) are deliberately absent: they are always
// recomputed server-side.
type CreateDealRequest struct {
	ClientID      int64                    `json:"client_id" binding:"required"`
	Category      models.ProcedureCategory `json:"category" binding:"required"`
	AmountGross   *float64                 `json:"amount_gross" binding:"required"`
	Discount      *float64                 `json:"discount"`
	TaxRate       *float64                 `json:"tax_rate"`
	PaymentMethod *string                  `json:"payment_method"`
	InvoiceNumber *string                  `json:"invoice_number"`
	DueDate       *string                  `json:"due_date"` // Format YYYY-MM-DD
	Status        *models.WorkflowStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus    `json:"payment_status"`
	Notes         *string                  `json:"notes"`
}

// UpdateDealRequest carries the same field set as create, every field
// optional. Only fields present in the request overwrite the stored record.
type UpdateDealRequest struct {
	ClientID      *int64                    `json:"client_id"`
	Category      *models.ProcedureCategory `json:"category"`
	AmountGross   *float64                  `json:"amount_gross"`
	Discount      *float64                  `json:"discount"`
	TaxRate       *float64                  `json:"tax_rate"`
	PaymentMethod *string                   `json:"payment_method"`
	InvoiceNumber *string                   `json:"invoice_number"`
	DueDate       *string                   `json:"due_date"` // Format YYYY-MM-DD
	Status        *models.WorkflowStatus    `json:"status"`
	PaymentStatus *models.PaymentStatus     `json:"payment_status"`
	Notes         *string                   `json:"notes"`
}

// --- DealService Interface ---
type DealService interface {
	CreateDeal(req CreateDealRequest) (*models.Deal, error)
	UpdateDeal(dealID int64, req UpdateDealRequest) (*models.Deal, error)
	GetDeals() ([]models.Deal, error)
	SearchDeals(filter repositories.DealFilter) ([]models.Deal, error)
}

// --- dealService Implementation ---
type dealService struct {
	dealRepo   repositories.DealRepository
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewDealService creates a new instance of DealService.
func NewDealService(dealRepo repositories.DealRepository, clientRepo repositories.ClientRepository, db *sql.DB) DealService {
	return &dealService{
		dealRepo:   dealRepo,
		clientRepo: clientRepo,
		db:         db,
	}
}

func parseDate(dateStr *string) (*time.Time, error) {
	if dateStr == nil || strings.TrimSpace(*dateStr) == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", *dateStr)
	if err != nil {
		return nil, ErrDateFormat
	}
	return &d, nil
}

func (s *dealService) CreateDeal(req CreateDealRequest) (*models.Deal, error) {
	// A deal may only be opened against an existing, active client.
	client, err := s.clientRepo.GetClientByID(req.ClientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to check client for deal: %w", err)
	}
	if !client.IsActive {
		return nil, ErrClientNotFound
	}

	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrDealValidation, req.Category)
	}
	if *req.AmountGross < 0 {
		return nil, fmt.Errorf("%w: amount_gross cannot be negative", ErrDealValidation)
	}

	status := models.StatusOpen
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrDealValidation, *req.Status)
		}
		status = *req.Status
	}
	paymentStatus := models.PaymentUnpaid
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrDealValidation, *req.PaymentStatus)
		}
		paymentStatus = *req.PaymentStatus
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	discount := 0.0
	if req.Discount != nil {
		discount = *req.Discount
	}
	taxRate := 0.0
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	now := time.Now().UTC()
	deal := &models.Deal{
		ClientID:      req.ClientID,
		Category:      req.Category,
		Status:        status,
		PaymentStatus: paymentStatus,
		AmountGross:   *req.AmountGross,
		Discount:      discount,
		TaxRate:       taxRate,
		Currency:      models.DefaultCurrency,
		PaymentMethod: req.PaymentMethod,
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   now,
		DueDate:       dueDate,
		Notes:         req.Notes,
		CreatedAt:     now,
	}
	deal.RecalculateDerived()

	id, err := s.dealRepo.CreateDeal(s.db, deal)
	if err != nil {
		return nil, fmt.Errorf("failed to create deal in repository: %w", err)
	}
	return s.dealRepo.GetDealByID(id)
}

func (s *dealService) UpdateDeal(dealID int64, req UpdateDealRequest) (*models.Deal, error) {
	deal, err := s.dealRepo.GetDealByID(dealID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to find deal for update: %w", err)
	}

	if req.ClientID != nil {
		deal.ClientID = *req.ClientID
	}
	if req.Category != nil {
		if !req.Category.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrDealValidation, *req.Category)
		}
		deal.Category = *req.Category
	}
	if req.AmountGross != nil {
		if *req.AmountGross < 0 {
			return nil, fmt.Errorf("%w: amount_gross cannot be negative", ErrDealValidation)
		}
		deal.AmountGross = *req.AmountGross
	}
	if req.Discount != nil {
		deal.Discount = *req.Discount
	}
	if req.TaxRate != nil {
		deal.TaxRate = *req.TaxRate
	}
	if req.PaymentMethod != nil {
		deal.PaymentMethod = req.PaymentMethod
	}
	if req.InvoiceNumber != nil {
		deal.InvoiceNumber = req.InvoiceNumber
	}
	if req.DueDate != nil {
		dueDate, parseErr := parseDate(req.DueDate)
		if parseErr != nil {
			return nil, parseErr
		}
		deal.DueDate = dueDate
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrDealValidation, *req.Status)
		}
		deal.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.IsValid() {
			return nil, fmt.Errorf("%w: unknown payment status %q", ErrDealValidation, *req.PaymentStatus)
		}
		deal.PaymentStatus = *req.PaymentStatus
	}
	if req.Notes != nil {
		deal.Notes = req.Notes
	}

	// Derived fields always reflect the post-merge inputs; caller-supplied
	// values for tax_amount/amount_net are never read.
	deal.RecalculateDerived()
	updatedAt := time.Now().UTC()
	deal.UpdatedAt = &updatedAt

	if err := s.dealRepo.UpdateDeal(s.db, deal); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to update deal in repository: %w", err)
	}
	return s.dealRepo.GetDealByID(dealID)
}

func (s *dealService) GetDeals() ([]models.Deal, error) {
	deals, err := s.dealRepo.GetDeals()
	if err != nil {
		return nil, fmt.Errorf("failed to get deals: %w", err)
	}
	return deals, nil
}

// SearchDeals returns deals matching the filter; an empty result is a normal
// response, unlike client search.
func (s *dealService) SearchDeals(filter repositories.DealFilter) ([]models.Deal, error) {
	deals, err := s.dealRepo.SearchDeals(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search deals: %w", err)
	}
	return deals, nil
}
