package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
	"revportal/internal/service"
)

// MockEntityService is a mock implementation of service.EntityService.
type MockEntityService struct {
	mock.Mock
}

func (m *MockEntityService) Register(ctx context.Context, input service.RegisterEntityInput) (*domain.TaxableEntity, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxableEntity), args.Error(1)
}

func (m *MockEntityService) Get(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxableEntity), args.Error(1)
}

func (m *MockEntityService) List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error) {
	args := m.Called(ctx, filters, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxableEntity), args.Int(1), args.Error(2)
}

func (m *MockEntityService) Approve(ctx context.Context, id int64, input service.ApproveEntityInput) (*domain.TaxableEntity, *domain.CalculationResult, error) {
	args := m.Called(ctx, id, input)
	var (
		entity *domain.TaxableEntity
		calc   *domain.CalculationResult
	)
	if args.Get(0) != nil {
		entity = args.Get(0).(*domain.TaxableEntity)
	}
	if args.Get(1) != nil {
		calc = args.Get(1).(*domain.CalculationResult)
	}
	return entity, calc, args.Error(2)
}

func (m *MockEntityService) Reject(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxableEntity), args.Error(1)
}
