package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/harlo-app/harlo-server/internal/summarizer"
)

// SummarizerClient is a mock of summarizer.Client.
type SummarizerClient struct {
	mock.Mock
}

func (m *SummarizerClient) Summarize(ctx context.Context, req summarizer.Request) (summarizer.Output, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(summarizer.Output), args.Error(1)
}
