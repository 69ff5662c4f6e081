package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiny_crm_backend/internal/models"
)

// DealFilter holds the optional search criteria for deals. Nil fields impose
// no constraint; present fields compose with logical AND.
type DealFilter struct {
	Status        *models.WorkflowStatus
	PaymentStatus *models.PaymentStatus
	Category      *models.ProcedureCategory
	ClientID      *int64
	DateFrom      *time.Time // inclusive lower bound on invoice_date
	DateTo        *time.Time // inclusive upper bound on invoice_date
}

// DealRepository defines the interface for deal-related database operations.
type DealRepository interface {
	CreateDeal(executor SQLExecutor, deal *models.Deal) (int64, error)
	GetDealByID(id int64) (*models.Deal, error)
	GetDeals() ([]models.Deal, error)
	SearchDeals(filter DealFilter) ([]models.Deal, error)
	UpdateDeal(executor SQLExecutor, deal *models.Deal) error
}

type dealRepository struct {
	db *sql.DB
}

// NewDealRepository creates a new instance of DealRepository.
func NewDealRepository(db *sql.DB) DealRepository {
	return &dealRepository{db: db}
}

const dealColumns = `id, client_id, category, status, payment_status,
	amount_gross, discount, tax_rate, tax_amount, amount_net, currency,
	paid_amount, payment_method, invoice_number, invoice_date, due_date, paid_date,
	notes, created_at, updated_at`

func scanDeal(s scanner, deal *models.Deal) error {
	return s.Scan(
		&deal.ID, &deal.ClientID, &deal.Category, &deal.Status, &deal.PaymentStatus,
		&deal.AmountGross, &deal.Discount, &deal.TaxRate, &deal.TaxAmount, &deal.AmountNet, &deal.Currency,
		&deal.PaidAmount, &deal.PaymentMethod, &deal.InvoiceNumber, &deal.InvoiceDate, &deal.DueDate, &deal.PaidDate,
		&deal.Notes, &deal.CreatedAt, &deal.UpdatedAt,
	)
}

// CreateDeal inserts a new deal into the database.
func (r *dealRepository) CreateDeal(executor SQLExecutor, deal *models.Deal) (int64, error) {
	query := `INSERT INTO deals (client_id, category, status, payment_status,
	            amount_gross, discount, tax_rate, tax_amount, amount_net, currency,
	            paid_amount, payment_method, invoice_number, invoice_date, due_date, paid_date,
	            notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	          RETURNING id`

	err := executor.QueryRow(query,
		deal.ClientID, deal.Category, deal.Status, deal.PaymentStatus,
		deal.AmountGross, deal.Discount, deal.TaxRate, deal.TaxAmount, deal.AmountNet, deal.Currency,
		deal.PaidAmount, deal.PaymentMethod, deal.InvoiceNumber, deal.InvoiceDate, deal.DueDate, deal.PaidDate,
		deal.Notes, deal.CreatedAt, deal.UpdatedAt,
	).Scan(&deal.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating deal: %v", ErrDatabaseError, err)
	}
	return deal.ID, nil
}

// GetDealByID retrieves a deal by its ID.
func (r *dealRepository) GetDealByID(id int64) (*models.Deal, error) {
	deal := &models.Deal{}
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = $1`

	err := scanDeal(r.db.QueryRow(query, id), deal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting deal by ID %d: %v", ErrDatabaseError, id, err)
	}
	return deal, nil
}

// GetDeals retrieves every deal, unfiltered.
func (r *dealRepository) GetDeals() ([]models.Deal, error) {
	return r.queryDeals(`SELECT `+dealColumns+` FROM deals ORDER BY id`, nil)
}

// buildDealSearchQuery assembles the filtered search statement. Each present
// filter adds one AND condition with a positional placeholder.
func buildDealSearchQuery(filter DealFilter) (string, []interface{}) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + dealColumns + ` FROM deals`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.PaymentStatus != nil {
		conditions = append(conditions, fmt.Sprintf("payment_status = $%d", argCounter))
		args = append(args, *filter.PaymentStatus)
		argCounter++
	}
	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCounter))
		args = append(args, *filter.Category)
		argCounter++
	}
	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("client_id = $%d", argCounter))
		args = append(args, *filter.ClientID)
		argCounter++
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date >= $%d", argCounter))
		args = append(args, *filter.DateFrom)
		argCounter++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("invoice_date <= $%d", argCounter))
		args = append(args, *filter.DateTo)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY id")

	return queryBuilder.String(), args
}

// SearchDeals retrieves deals matching the filter. An empty result is normal
// and returns an empty slice.
func (r *dealRepository) SearchDeals(filter DealFilter) ([]models.Deal, error) {
	query, args := buildDealSearchQuery(filter)
	return r.queryDeals(query, args)
}

func (r *dealRepository) queryDeals(query string, args []interface{}) ([]models.Deal, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying deals: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	deals := []models.Deal{}
	for rows.Next() {
		var deal models.Deal
		if err := scanDeal(rows, &deal); err != nil {
			return nil, fmt.Errorf("%w: scanning deal: %v", ErrDatabaseError, err)
		}
		deals = append(deals, deal)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating deal rows: %v", ErrDatabaseError, err)
	}
	return deals, nil
}

// UpdateDeal overwrites the stored deal with the given record.
func (r *dealRepository) UpdateDeal(executor SQLExecutor, deal *models.Deal) error {
	query := `UPDATE deals SET
	            client_id = $1, category = $2, status = $3, payment_status = $4,
	            amount_gross = $5, discount = $6, tax_rate = $7, tax_amount = $8, amount_net = $9, currency = $10,
	            paid_amount = $11, payment_method = $12, invoice_number = $13, invoice_date = $14,
	            due_date = $15, paid_date = $16, notes = $17, updated_at = $18
	          WHERE id = $19`

	result, err := executor.Exec(query,
		deal.ClientID, deal.Category, deal.Status, deal.PaymentStatus,
		deal.AmountGross, deal.Discount, deal.TaxRate, deal.TaxAmount, deal.AmountNet, deal.Currency,
		deal.PaidAmount, deal.PaymentMethod, deal.InvoiceNumber, deal.InvoiceDate,
		deal.DueDate, deal.PaidDate, deal.Notes, deal.UpdatedAt, deal.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating deal ID %d: %v", ErrDatabaseError, deal.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating deal ID %d: %v", ErrDatabaseError, deal.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
