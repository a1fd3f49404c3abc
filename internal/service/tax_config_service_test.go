package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"revportal/internal/domain"
	"revportal/internal/service"
	"revportal/mocks"
)

func TestTaxConfigService_InvalidKind(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)
	ctx := context.Background()

	_, err := svc.ListAll(ctx, "surcharge")
	assert.ErrorIs(t, err, domain.ErrInvalidConfigKind)
	_, err = svc.Get(ctx, "surcharge", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidConfigKind)
	assert.ErrorIs(t, svc.Delete(ctx, "surcharge", 1), domain.ErrInvalidConfigKind)
	repo.AssertExpectations(t)
}

func TestTaxConfigService_Create_Success(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(cfg *domain.TaxConfig) bool {
		return cfg.Kind == domain.ConfigKindGrossSales &&
			*cfg.BusinessType == "Retailer" &&
			cfg.ExpirationDate == nil
	})).Return(nil)

	cfg, err := svc.Create(context.Background(), domain.ConfigKindGrossSales, service.ConfigInput{
		BusinessType:   strPtr("  Retailer "),
		Percent:        decPtr("2.5"),
		EffectiveDate:  strPtr("2024-01-01"),
		ExpirationDate: strPtr("0000-00-00"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", cfg.EffectiveDate.String())
	repo.AssertExpectations(t)
}

func TestTaxConfigService_Create_MissingEffectiveDate(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	_, err := svc.Create(context.Background(), domain.ConfigKindPenalty, service.ConfigInput{Percent: decPtr("2")})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "effective_date", verr.Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaxConfigService_Create_InvertedBracket(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	_, err := svc.Create(context.Background(), domain.ConfigKindCapitalInvestment, service.ConfigInput{
		MinAmount:     decPtr("500000"),
		MaxAmount:     decPtr("100000"),
		Percent:       decPtr("0.5"),
		EffectiveDate: strPtr("2024-01-01"),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "max_amount", verr.Field)
}

func TestTaxConfigService_Update_PatchesFields(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	existing := bracket(5, "0", "100000", "0.25")
	repo.On("GetByID", mock.Anything, domain.ConfigKindCapitalInvestment, int64(5)).Return(&existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.TaxConfig")).Return(nil)

	cfg, err := svc.Update(context.Background(), domain.ConfigKindCapitalInvestment, 5, service.ConfigInput{
		Percent:        decPtr("0.30"),
		ExpirationDate: strPtr("2024-12-31"),
	})

	require.NoError(t, err)
	assert.True(t, cfg.Percent.Equal(dec("0.3")))
	assert.True(t, cfg.MaxAmount.Equal(dec("100000")))
	require.NotNil(t, cfg.ExpirationDate)
	assert.Equal(t, "2024-12-31", cfg.ExpirationDate.String())
	repo.AssertExpectations(t)
}

func TestTaxConfigService_Update_NotFound(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	repo.On("GetByID", mock.Anything, domain.ConfigKindDiscount, int64(9)).Return(nil, domain.ErrConfigNotFound)

	_, err := svc.Update(context.Background(), domain.ConfigKindDiscount, 9, service.ConfigInput{Percent: decPtr("5")})
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTaxConfigService_Expire_OnGivenDay(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	day := domain.NewDate(2024, time.June, 30)
	expired := bracket(5, "0", "100000", "0.25")
	expired.ExpirationDate = &day
	repo.On("Expire", mock.Anything, domain.ConfigKindCapitalInvestment, int64(5), day).Return(nil)
	repo.On("GetByID", mock.Anything, domain.ConfigKindCapitalInvestment, int64(5)).Return(&expired, nil)

	cfg, err := svc.Expire(context.Background(), domain.ConfigKindCapitalInvestment, 5, &day)

	require.NoError(t, err)
	assert.Equal(t, "2024-06-30", cfg.ExpirationDate.String())
	repo.AssertExpectations(t)
}

func TestTaxConfigService_ListActive(t *testing.T) {
	repo := new(mocks.MockTaxConfigRepo)
	svc := service.NewTaxConfigService(repo)

	rows := []domain.TaxConfig{fee(1, "Sanitary", "100")}
	repo.On("ListActive", mock.Anything, domain.ConfigKindRegulatoryFee, asOf2024).Return(rows, nil)

	got, err := svc.ListActive(context.Background(), domain.ConfigKindRegulatoryFee, asOf2024)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
