package services_test

import (
	"testing"
	"time"

	"tiny_crm_backend/internal/models"
	"tiny_crm_backend/internal/repositories"
	"tiny_crm_backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDealRepo is an in-memory DealRepository.
type stubDealRepo struct {
	deals  map[int64]*models.Deal
	nextID int64
}

func newStubDealRepo() *stubDealRepo {
	return &stubDealRepo{deals: map[int64]*models.Deal{}}
}

func (r *stubDealRepo) CreateDeal(_ repositories.SQLExecutor, deal *models.Deal) (int64, error) {
	r.nextID++
	deal.ID = r.nextID
	stored := *deal
	r.deals[deal.ID] = &stored
	return deal.ID, nil
}

func (r *stubDealRepo) GetDealByID(id int64) (*models.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *stubDealRepo) GetDeals() ([]models.Deal, error) {
	result := []models.Deal{}
	for _, d := range r.deals {
		result = append(result, *d)
	}
	return result, nil
}

func (r *stubDealRepo) SearchDeals(filter repositories.DealFilter) ([]models.Deal, error) {
	result := []models.Deal{}
	for _, d := range r.deals {
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		if filter.PaymentStatus != nil && d.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.Category != nil && d.Category != *filter.Category {
			continue
		}
		if filter.ClientID != nil && d.ClientID != *filter.ClientID {
			continue
		}
		if filter.DateFrom != nil && d.InvoiceDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && d.InvoiceDate.After(*filter.DateTo) {
			continue
		}
		result = append(result, *d)
	}
	return result, nil
}

func (r *stubDealRepo) UpdateDeal(_ repositories.SQLExecutor, deal *models.Deal) error {
	if _, ok := r.deals[deal.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *deal
	r.deals[deal.ID] = &stored
	return nil
}

func floatPtr(f float64) *float64 { return &f }

func categoryPtr(c models.ProcedureCategory) *models.ProcedureCategory { return &c }

func statusPtr(s models.WorkflowStatus) *models.WorkflowStatus { return &s }

// newDealFixture returns a deal service with one active and one inactive
// client seeded.
func newDealFixture(t *testing.T) (services.DealService, *stubDealRepo, activeInactiveIDs) {
	t.Helper()
	clientRepo := newStubClientRepo()
	clientSvc := services.NewClientService(clientRepo, nil)
	active := seedClient(t, clientSvc, "Deal", "Maker")
	inactive := seedClient(t, clientSvc, "Gone", "Client")
	_, err := clientSvc.DeactivateClient(inactive.ID)
	require.NoError(t, err)

	dealRepo := newStubDealRepo()
	return services.NewDealService(dealRepo, clientRepo, nil), dealRepo, activeInactiveIDs{active.ID, inactive.ID}
}

type activeInactiveIDs struct {
	active   int64
	inactive int64
}

func TestCreateDeal_ComputesDerivedFields(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	deal, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    ids.active,
		Category:    models.ProcedureCleaning,
		AmountGross: floatPtr(100),
		Discount:    floatPtr(10),
		TaxRate:     floatPtr(0.15),
	})
	require.NoError(t, err)

	assert.Equal(t, 15.0, deal.TaxAmount)
	assert.Equal(t, 105.0, deal.AmountNet)
	assert.Equal(t, models.StatusOpen, deal.Status)
	assert.Equal(t, models.PaymentUnpaid, deal.PaymentStatus)
	assert.Equal(t, models.DefaultCurrency, deal.Currency)
	assert.False(t, deal.InvoiceDate.IsZero())
	assert.False(t, deal.CreatedAt.IsZero())
	assert.Nil(t, deal.UpdatedAt)
}

func TestCreateDeal_DefaultsWithoutOptionalFields(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	deal, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    ids.active,
		Category:    models.ProcedureCrown,
		AmountGross: floatPtr(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, deal.Discount)
	assert.Equal(t, 0.0, deal.TaxRate)
	assert.Equal(t, 0.0, deal.TaxAmount)
	assert.Equal(t, 50.0, deal.AmountNet)
}

func TestCreateDeal_MissingClient(t *testing.T) {
	svc, dealRepo, _ := newDealFixture(t)

	_, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    999,
		Category:    models.ProcedureFilling,
		AmountGross: floatPtr(100),
	})
	assert.ErrorIs(t, err, services.ErrClientNotFound)
	assert.Empty(t, dealRepo.deals)
}

func TestCreateDeal_InactiveClient(t *testing.T) {
	svc, dealRepo, ids := newDealFixture(t)

	_, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    ids.inactive,
		Category:    models.ProcedureFilling,
		AmountGross: floatPtr(100),
	})
	assert.ErrorIs(t, err, services.ErrClientNotFound)
	assert.Empty(t, dealRepo.deals)
}

func TestCreateDeal_Validation(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	tests := []struct {
		name    string
		req     services.CreateDealRequest
		wantErr error
	}{
		{
			"unknown category",
			services.CreateDealRequest{ClientID: ids.active, Category: "botox", AmountGross: floatPtr(100)},
			services.ErrDealValidation,
		},
		{
			"negative gross",
			services.CreateDealRequest{ClientID: ids.active, Category: models.ProcedureCleaning, AmountGross: floatPtr(-1)},
			services.ErrDealValidation,
		},
		{
			"unknown status override",
			services.CreateDealRequest{ClientID: ids.active, Category: models.ProcedureCleaning, AmountGross: floatPtr(100), Status: statusPtr("paused")},
			services.ErrDealValidation,
		},
		{
			"malformed due date",
			services.CreateDealRequest{ClientID: ids.active, Category: models.ProcedureCleaning, AmountGross: floatPtr(100), DueDate: strPtr("31-12-2025")},
			services.ErrDateFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDeal(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateDeal_StatusOverrides(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	ps := models.PaymentPartial
	deal, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:      ids.active,
		Category:      models.ProcedureExtraction,
		AmountGross:   floatPtr(200),
		Status:        statusPtr(models.StatusInvoiced),
		PaymentStatus: &ps,
		DueDate:       strPtr("2026-09-15"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInvoiced, deal.Status)
	assert.Equal(t, models.PaymentPartial, deal.PaymentStatus)
	require.NotNil(t, deal.DueDate)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), *deal.DueDate)
}

func TestUpdateDeal_RecomputesDerivedFields(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	created, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    ids.active,
		Category:    models.ProcedureCleaning,
		AmountGross: floatPtr(100),
		Discount:    floatPtr(10),
		TaxRate:     floatPtr(0.15),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDeal(created.ID, services.UpdateDealRequest{
		AmountGross: floatPtr(250),
		Discount:    floatPtr(25),
		TaxRate:     floatPtr(0.1),
	})
	require.NoError(t, err)

	assert.Equal(t, 25.0, updated.TaxAmount)
	assert.Equal(t, 250.0, updated.AmountNet)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateDeal_PartialMergeKeepsAbsentFields(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	created, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:      ids.active,
		Category:      models.ProcedureRootCanal,
		AmountGross:   floatPtr(100),
		TaxRate:       floatPtr(0.2),
		InvoiceNumber: strPtr("INV-001"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateDeal(created.ID, services.UpdateDealRequest{
		Discount: floatPtr(30),
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProcedureRootCanal, updated.Category)
	assert.Equal(t, 100.0, updated.AmountGross)
	assert.Equal(t, 0.2, updated.TaxRate)
	require.NotNil(t, updated.InvoiceNumber)
	assert.Equal(t, "INV-001", *updated.InvoiceNumber)
	// Recomputed from merged inputs: 100 - 30 + 100*0.2
	assert.Equal(t, 90.0, updated.AmountNet)
}

func TestUpdateDeal_NotFound(t *testing.T) {
	svc, _, _ := newDealFixture(t)

	_, err := svc.UpdateDeal(404, services.UpdateDealRequest{Discount: floatPtr(5)})
	assert.ErrorIs(t, err, services.ErrDealNotFound)
}

func TestUpdateDeal_InvalidEnum(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	created, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID:    ids.active,
		Category:    models.ProcedureCleaning,
		AmountGross: floatPtr(100),
	})
	require.NoError(t, err)

	_, err = svc.UpdateDeal(created.ID, services.UpdateDealRequest{Category: categoryPtr("botox")})
	assert.ErrorIs(t, err, services.ErrDealValidation)
}

func TestSearchDeals_FilterByCategory(t *testing.T) {
	svc, _, ids := newDealFixture(t)

	_, err := svc.CreateDeal(services.CreateDealRequest{
		ClientID: ids.active, Category: models.ProcedureCleaning, AmountGross: floatPtr(100),
	})
	require.NoError(t, err)
	_, err = svc.CreateDeal(services.CreateDealRequest{
		ClientID: ids.active, Category: models.ProcedureCrown, AmountGross: floatPtr(500),
	})
	require.NoError(t, err)

	all, err := svc.SearchDeals(repositories.DealFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.SearchDeals(repositories.DealFilter{Category: categoryPtr(models.ProcedureCleaning)})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.ProcedureCleaning, filtered[0].Category)

	// Empty result is a valid response, not an error.
	none, err := svc.SearchDeals(repositories.DealFilter{Category: categoryPtr(models.ProcedureFilling)})
	require.NoError(t, err)
	assert.Empty(t, none)
}
