package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendExtractionComplete(ctx context.Context, toEmail string, jobID uuid.UUID, tradelineCount int) error {
	args := m.Called(ctx, toEmail, jobID, tradelineCount)
	return args.Error(0)
}

func (m *MockEmailSender) SendExtractionFailed(ctx context.Context, toEmail string, jobID uuid.UUID, reason string) error {
	args := m.Called(ctx, toEmail, jobID, reason)
	return args.Error(0)
}
