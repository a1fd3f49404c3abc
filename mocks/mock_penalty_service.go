package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"revportal/internal/domain"
)

// MockPenaltyService is a mock implementation of service.PenaltyService.
type MockPenaltyService struct {
	mock.Mock
}

func (m *MockPenaltyService) AccruePenalties(ctx context.Context, asOf domain.Date) *domain.AccrualResult {
	args := m.Called(ctx, asOf)
	return args.Get(0).(*domain.AccrualResult)
}
