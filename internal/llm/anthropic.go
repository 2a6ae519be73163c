package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/pkg/anthropic"
)

const defaultMaxTokens = 1024

// AnthropicCompleter completes prompts with Claude.
type AnthropicCompleter struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

// NewAnthropicCompleter wraps an Anthropic client.
func NewAnthropicCompleter(client anthropic.Client, model string, timeout time.Duration) *AnthropicCompleter {
	return &AnthropicCompleter{client: client, model: model, timeout: timeout}
}

// Complete implements Completer.
func (a *AnthropicCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := withTimeout(ctx, a.timeout)
	defer cancel()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	temp := req.Temperature

	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       a.model,
		MaxTokens:   maxTokens,
		Messages:    []anthropic.Message{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "llm: anthropic %s", req.Task)
	}
	resp.Usage.LogCost(a.model, req.Task)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, eris.Wrapf(ErrEmptyCompletion, "anthropic %s", req.Task)
	}
	return &Completion{
		Text:         text,
		Model:        resp.Model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}
