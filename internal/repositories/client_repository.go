package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tiny_crm_backend/internal/models"
)

// ClientRepository defines the interface for client-related database operations.
type ClientRepository interface {
	CreateClient(executor SQLExecutor, client *models.Client) (int64, error)
	GetClientByID(id int64) (*models.Client, error)
	GetClientsByActive(isActive bool) ([]models.Client, error)
	SearchClients(fragment string) ([]models.Client, error)
	DeactivateClient(executor SQLExecutor, id int64) error
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository.
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, first_name, middle_name, last_name, email, phone, address, is_active, created_at`

func scanClient(s scanner, client *models.Client) error {
	return s.Scan(
		&client.ID, &client.FirstName, &client.MiddleName, &client.LastName,
		&client.Email, &client.Phone, &client.Address, &client.IsActive, &client.CreatedAt,
	)
}

// CreateClient inserts a new client into the database.
func (r *clientRepository) CreateClient(executor SQLExecutor, client *models.Client) (int64, error) {
	query := `INSERT INTO clients (first_name, middle_name, last_name, email, phone, address, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	err := executor.QueryRow(query,
		client.FirstName, client.MiddleName, client.LastName,
		client.Email, client.Phone, client.Address, client.IsActive, client.CreatedAt,
	).Scan(&client.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating client: %v", ErrDatabaseError, err)
	}
	return client.ID, nil
}

// GetClientByID retrieves a client by ID regardless of its active flag.
// Callers decide whether inactive clients are visible.
func (r *clientRepository) GetClientByID(id int64) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	err := scanClient(r.db.QueryRow(query, id), client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting client by ID %d: %v", ErrDatabaseError, id, err)
	}
	return client, nil
}

// GetClientsByActive retrieves all clients with the given active flag, in
// storage order.
func (r *clientRepository) GetClientsByActive(isActive bool) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE is_active = $1 ORDER BY id`

	rows, err := r.db.Query(query, isActive)
	if err != nil {
		return nil, fmt.Errorf("%w: querying clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client); err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// SearchClients performs a case-insensitive substring match against name,
// phone and email columns, restricted to active clients.
func (r *clientRepository) SearchClients(fragment string) ([]models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients
	          WHERE is_active = TRUE
	            AND (first_name ILIKE $1 OR last_name ILIKE $1 OR middle_name ILIKE $1
	                 OR phone ILIKE $1 OR email ILIKE $1)
	          ORDER BY id`

	pattern := "%" + fragment + "%"
	rows, err := r.db.Query(query, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: searching clients: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var client models.Client
		if err := scanClient(rows, &client); err != nil {
			return nil, fmt.Errorf("%w: scanning client: %v", ErrDatabaseError, err)
		}
		clients = append(clients, client)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating client rows: %v", ErrDatabaseError, err)
	}
	return clients, nil
}

// DeactivateClient flips is_active to false for an active client.
// Returns ErrNotFound when the client is absent or already inactive, so a
// second deactivation of the same id reports not-found.
func (r *clientRepository) DeactivateClient(executor SQLExecutor, id int64) error {
	query := `UPDATE clients SET is_active = FALSE WHERE id = $1 AND is_active = TRUE`

	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deactivating client ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deactivating client ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
