package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockEntityRepo is a mock implementation of port.EntityRepository.
type MockEntityRepo struct {
	mock.Mock
}

func (m *MockEntityRepo) Create(ctx context.Context, entity *domain.TaxableEntity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepo) GetByID(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxableEntity), args.Error(1)
}

func (m *MockEntityRepo) GetForUpdate(ctx context.Context, id int64) (*domain.TaxableEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxableEntity), args.Error(1)
}

func (m *MockEntityRepo) List(ctx context.Context, filters domain.EntityFilters, offset, limit int) ([]domain.TaxableEntity, int, error) {
	args := m.Called(ctx, filters, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.TaxableEntity), args.Int(1), args.Error(2)
}

func (m *MockEntityRepo) UpdateTax(ctx context.Context, entity *domain.TaxableEntity) error {
	args := m.Called(ctx, entity)
	return args.Error(0)
}

func (m *MockEntityRepo) UpdateStatus(ctx context.Context, id int64, status domain.EntityStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
