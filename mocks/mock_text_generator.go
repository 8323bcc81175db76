package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"creditpipe/internal/port"
)

// MockTextGenerator is a mock implementation of port.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	out := args.Get(0).(*port.GenerateOutput)
	if input.OnChunk != nil && out != nil {
		input.OnChunk(out.Text)
	}
	return out, args.Error(1)
}
