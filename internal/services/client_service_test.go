package services_test

import (
	"strings"
	"testing"

	"tiny_crm_backend/internal/models"
	"tiny_crm_backend/internal/repositories"
	"tiny_crm_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClientRepo is an in-memory ClientRepository.
type stubClientRepo struct {
	clients map[int64]*models.Client
	nextID  int64
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{clients: map[int64]*models.Client{}}
}

func (r *stubClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	r.nextID++
	client.ID = r.nextID
	stored := *client
	r.clients[client.ID] = &stored
	return client.ID, nil
}

func (r *stubClientRepo) GetClientByID(id int64) (*models.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *stubClientRepo) GetClientsByActive(isActive bool) ([]models.Client, error) {
	result := []models.Client{}
	for _, c := range r.clients {
		if c.IsActive == isActive {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubClientRepo) SearchClients(fragment string) ([]models.Client, error) {
	needle := strings.ToLower(fragment)
	matches := func(field *string) bool {
		return field != nil && strings.Contains(strings.ToLower(*field), needle)
	}
	result := []models.Client{}
	for _, c := range r.clients {
		if !c.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), needle) ||
			strings.Contains(strings.ToLower(c.LastName), needle) ||
			matches(c.MiddleName) || matches(c.Phone) || matches(c.Email) {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *stubClientRepo) DeactivateClient(_ repositories.SQLExecutor, id int64) error {
	c, ok := r.clients[id]
	if !ok || !c.IsActive {
		return repositories.ErrNotFound
	}
	c.IsActive = false
	return nil
}

func strPtr(s string) *string { return &s }

func seedClient(t *testing.T, svc services.ClientService, first, last string) *models.Client {
	t.Helper()
	client, err := svc.CreateClient(services.CreateClientRequest{FirstName: first, LastName: last})
	require.NoError(t, err)
	return client
}

func TestCreateClient_SetsActiveAndCreatedAt(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)

	client, err := svc.CreateClient(services.CreateClientRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     strPtr("john.doe@example.com"),
	})
	require.NoError(t, err)

	assert.True(t, client.IsActive)
	assert.False(t, client.CreatedAt.IsZero())
	assert.NotZero(t, client.ID)
}

func TestCreateClient_Validation(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)

	tests := []struct {
		name string
		req  services.CreateClientRequest
	}{
		{"blank first name", services.CreateClientRequest{FirstName: "  ", LastName: "Doe"}},
		{"blank last name", services.CreateClientRequest{FirstName: "John", LastName: ""}},
		{"malformed email", services.CreateClientRequest{FirstName: "John", LastName: "Doe", Email: strPtr("not-an-email")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClient(tt.req)
			assert.ErrorIs(t, err, services.ErrClientValidation)
		})
	}
}

func TestGetClientByID_InactiveIsInvisible(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)
	client := seedClient(t, svc, "Jane", "Doe")

	_, err := svc.DeactivateClient(client.ID)
	require.NoError(t, err)

	_, err = svc.GetClientByID(client.ID)
	assert.ErrorIs(t, err, services.ErrClientNotFound)
}

func TestGetClientByID_Missing(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)

	_, err := svc.GetClientByID(999)
	assert.ErrorIs(t, err, services.ErrClientNotFound)
}

func TestDeactivateClient_Twice(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)
	client := seedClient(t, svc, "Active", "Client")

	deactivated, err := svc.DeactivateClient(client.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = svc.DeactivateClient(client.ID)
	assert.ErrorIs(t, err, services.ErrClientNotFound)
}

func TestSearchClients_BlankFragment(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)

	_, err := svc.SearchClients("   ")
	assert.ErrorIs(t, err, services.ErrClientValidation)
}

func TestSearchClients_NoMatchIsNotFound(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)
	seedClient(t, svc, "Search", "Me")

	_, err := svc.SearchClients("nonexistent")
	assert.ErrorIs(t, err, services.ErrNoClientsFound)
}

func TestSearchClients_MatchesAndExcludesInactive(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)
	active := seedClient(t, svc, "Searchable", "Person")
	inactive := seedClient(t, svc, "Searchable", "Ghost")
	_, err := svc.DeactivateClient(inactive.ID)
	require.NoError(t, err)

	// Case-insensitive substring match.
	results, err := svc.SearchClients("searchABLE")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, active.ID, results[0].ID)
}

func TestActiveInactiveListingsPartition(t *testing.T) {
	svc := services.NewClientService(newStubClientRepo(), nil)
	a := seedClient(t, svc, "Alice", "One")
	b := seedClient(t, svc, "Bob", "Two")
	c := seedClient(t, svc, "Carol", "Three")

	_, err := svc.DeactivateClient(b.ID)
	require.NoError(t, err)

	active, err := svc.GetActiveClients()
	require.NoError(t, err)
	inactive, err := svc.GetInactiveClients()
	require.NoError(t, err)

	assert.Len(t, active, 2)
	assert.Len(t, inactive, 1)

	seen := map[int64]bool{}
	for _, cl := range append(active, inactive...) {
		seen[cl.ID] = true
	}
	assert.Equal(t, map[int64]bool{a.ID: true, b.ID: true, c.ID: true}, seen)
}
