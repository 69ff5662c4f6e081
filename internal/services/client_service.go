package services

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"tiny_crm_backend/internal/models"
	"tiny_crm_backend/internal/repositories"
)

// --- Custom Service Errors for Client ---
var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientValidation = errors.New("client data validation error")
	ErrNoClientsFound   = errors.New("no clients found")
)

// --- Client DTOs ---
type CreateClientRequest struct {
	FirstName  string  `json:"first_name" binding:"required"`
	MiddleName *string `json:"middle_name"`
	LastName   string  `json:"last_name" binding:"required"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
}

// --- ClientService Interface ---
type ClientService interface {
	CreateClient(req CreateClientRequest) (*models.Client, error)
	GetClientByID(clientID int64) (*models.Client, error)
	GetActiveClients() ([]models.Client, error)
	GetInactiveClients() ([]models.Client, error)
	SearchClients(fragment string) ([]models.Client, error)
	DeactivateClient(clientID int64) (*models.Client, error)
}

// --- clientService Implementation ---
type clientService struct {
	clientRepo repositories.ClientRepository
	db         *sql.DB
}

// NewClientService creates a new instance of ClientService.
func NewClientService(repo repositories.ClientRepository, db *sql.DB) ClientService {
	return &clientService{
		clientRepo: repo,
		db:         db,
	}
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`)

func (s *clientService) validateClientData(firstName, lastName string, email *string) error {
	if strings.TrimSpace(firstName) == "" {
		return fmt.Errorf("%w: first name cannot be empty", ErrClientValidation)
	}
	if strings.TrimSpace(lastName) == "" {
		return fmt.Errorf("%w: last name cannot be empty", ErrClientValidation)
	}
	if email != nil && *email != "" {
		em := strings.ToLower(strings.TrimSpace(*email))
		if !emailRegex.MatchString(em) {
			return fmt.Errorf("%w: email format is invalid", ErrClientValidation)
		}
	}
	return nil
}

func (s *clientService) CreateClient(req CreateClientRequest) (*models.Client, error) {
	if err := s.validateClientData(req.FirstName, req.LastName, req.Email); err != nil {
		return nil, err
	}

	client := &models.Client{
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	id, err := s.clientRepo.CreateClient(s.db, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client in repository: %w", err)
	}
	return s.clientRepo.GetClientByID(id)
}

// GetClientByID returns the client only when it exists and is active.
// Inactive clients are invisible to direct lookup.
func (s *clientService) GetClientByID(clientID int64) (*models.Client, error) {
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}
	if !client.IsActive {
		return nil, ErrClientNotFound
	}
	return client, nil
}

func (s *clientService) GetActiveClients() ([]models.Client, error) {
	clients, err := s.clientRepo.GetClientsByActive(true)
	if err != nil {
		return nil, fmt.Errorf("failed to get active clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) GetInactiveClients() ([]models.Client, error) {
	clients, err := s.clientRepo.GetClientsByActive(false)
	if err != nil {
		return nil, fmt.Errorf("failed to get inactive clients: %w", err)
	}
	return clients, nil
}

// SearchClients matches the fragment against name, phone and email of active
// clients. Zero matches is reported as ErrNoClientsFound, not an empty list.
func (s *clientService) SearchClients(fragment string) ([]models.Client, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, fmt.Errorf("%w: search fragment cannot be empty", ErrClientValidation)
	}

	clients, err := s.clientRepo.SearchClients(fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	if len(clients) == 0 {
		return nil, ErrNoClientsFound
	}
	return clients, nil
}

// DeactivateClient soft-deletes a client and returns the updated record.
// A second call on the same id reports ErrClientNotFound, since the client no
// longer matches the active-only guard.
func (s *clientService) DeactivateClient(clientID int64) (*models.Client, error) {
	err := s.clientRepo.DeactivateClient(s.db, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to deactivate client: %w", err)
	}
	// Fetch through the repository so the now-inactive record is returned.
	client, err := s.clientRepo.GetClientByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload client after deactivation: %w", err)
	}
	return client, nil
}
