package llm

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/mock"

	"github.com/Loan69/ai-agent-prospection/pkg/anthropic"
)

type mockAnthropic struct {
	mock.Mock
}

func (m *mockAnthropic) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

type fakeGenerator struct {
	resp     *genai.GenerateContentResponse
	err      error
	prompt   string
	deadline bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	_, f.deadline = ctx.Deadline()
	if len(parts) > 0 {
		if t, ok := parts[0].(genai.Text); ok {
			f.prompt = string(t)
		}
	}
	return f.resp, f.err
}
