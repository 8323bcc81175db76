package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"creditpipe/internal/domain"
)

// MockTradelineRepository is a mock implementation of port.TradelineRepository.
type MockTradelineRepository struct {
	mock.Mock
}

func (m *MockTradelineRepository) Upsert(ctx context.Context, tl *domain.Tradeline) error {
	args := m.Called(ctx, tl)
	return args.Error(0)
}

func (m *MockTradelineRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Tradeline, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tradeline), args.Error(1)
}

func (m *MockTradelineRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Tradeline, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Tradeline), args.Int(1), args.Error(2)
}

func (m *MockTradelineRepository) ListNegativeByUser(ctx context.Context, userID uuid.UUID) ([]domain.Tradeline, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tradeline), args.Error(1)
}

func (m *MockTradelineRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
