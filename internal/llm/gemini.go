package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// generator is the subset of *genai.GenerativeModel used here.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiCompleter completes prompts with a Gemini model.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	newGen  func(temperature float32, maxTokens int32) generator
}

// NewGeminiCompleter creates a Gemini client. Call Close when done.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, eris.Wrap(err, "llm: create gemini client")
	}
	g := &GeminiCompleter{client: client, model: model, timeout: timeout}
	g.newGen = func(temperature float32, maxTokens int32) generator {
		m := client.GenerativeModel(model)
		m.SetTemperature(temperature)
		m.SetMaxOutputTokens(maxTokens)
		return m
	}
	return g, nil
}

// Close releases the underlying client.
func (g *GeminiCompleter) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// Complete implements Completer.
func (g *GeminiCompleter) Complete(ctx context.Context, req Request) (*Completion, error) {
	ctx, cancel := withTimeout(ctx, g.timeout)
	defer cancel()

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	resp, err := g.newGen(float32(req.Temperature), int32(maxTokens)).GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return nil, eris.Wrapf(err, "llm: gemini %s", req.Task)
	}

	var sb strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, p := range resp.Candidates[0].Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, eris.Wrapf(ErrEmptyCompletion, "gemini %s", req.Task)
	}

	c := &Completion{Text: text, Model: g.model}
	if u := resp.UsageMetadata; u != nil {
		c.InputTokens = int64(u.PromptTokenCount)
		c.OutputTokens = int64(u.CandidatesTokenCount)
	}
	zap.L().Info("cost attribution",
		zap.String("model", g.model),
		zap.String("task", req.Task),
		zap.Int64("input_tokens", c.InputTokens),
		zap.Int64("output_tokens", c.OutputTokens),
	)
	return c, nil
}
