// Package llm provides the text completion backends used to qualify, score
// and write to leads.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// ErrEmptyCompletion is returned when the backend answers without text.
var ErrEmptyCompletion = eris.New("llm: empty completion")

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 60 * time.Second

// Request is a single-prompt completion request.
type Request struct {
	Task        string
	Prompt      string
	Temperature float64
	MaxTokens   int64
}

// Completion is the free-text answer of the model.
type Completion struct {
	Text         string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Completer returns one free-text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (*Completion, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (*Completion, error) {
	return f(ctx, req)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}
