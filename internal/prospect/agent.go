// Package prospect drives the prospecting runs: places scans, feed scans,
// lead qualification and message generation.
package prospect

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/Loan69/ai-agent-prospection/internal/detector"
	"github.com/Loan69/ai-agent-prospection/internal/feed"
	"github.com/Loan69/ai-agent-prospection/internal/heuristic"
	"github.com/Loan69/ai-agent-prospection/internal/llm"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/notify"
	"github.com/Loan69/ai-agent-prospection/internal/places"
	"github.com/Loan69/ai-agent-prospection/internal/prompt"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

// ErrNoCompleter is returned by model-backed operations when no completion
// backend is configured.
var ErrNoCompleter = eris.New("prospect: no completer configured")

// Feed projects are answered as an anonymous client with a fixed angle.
const (
	FeedCompanyName   = "Client Codeur"
	FeedBusinessAngle = "développement de sites web, SaaS ou applications sur mesure"
	MessageChannel    = "email"
)

// DefaultItemDelay paces the per-candidate work of a scan.
const DefaultItemDelay = 500 * time.Millisecond

// Config tunes the runs. Zone, radius, result and filter settings are
// overridden by the stored agent configuration when one exists.
type Config struct {
	Zones             []string
	Radius            int
	MaxResultsPerZone int
	Keywords          []string
	Filter            places.Filter
	ContactThreshold  int
	ItemDelay         time.Duration

	// EnforceNoProblemCap keeps a clean, existing website below the
	// contact threshold whatever the model answered.
	EnforceNoProblemCap bool

	// Heuristic scores places without calling the model.
	Heuristic bool

	Matcher feed.Matcher
}

// DefaultConfig returns the configuration used without any override.
func DefaultConfig() Config {
	return Config{
		Zones:               places.DefaultZones,
		Radius:              3000,
		MaxResultsPerZone:   20,
		Keywords:            places.DefaultKeywords,
		Filter:              places.DefaultFilter(),
		ContactThreshold:    heuristic.ContactThreshold,
		ItemDelay:           DefaultItemDelay,
		EnforceNoProblemCap: true,
		Matcher:             feed.NewMatcher(nil, 0),
	}
}

// Merge overlays the non-zero fields of a stored agent configuration.
// Priority sectors replace the search keywords.
func (c Config) Merge(s model.AgentConfig) Config {
	if len(s.Zones) > 0 {
		c.Zones = s.Zones
	}
	if s.Radius > 0 {
		c.Radius = s.Radius
	}
	if s.MaxResultsPerZone > 0 {
		c.MaxResultsPerZone = s.MaxResultsPerZone
	}
	if s.MinReviews > 0 {
		c.Filter.MinReviews = s.MinReviews
	}
	if s.MinRating > 0 {
		c.Filter.MinRating = s.MinRating
	}
	if len(s.PrioritySectors) > 0 {
		c.Keywords = s.PrioritySectors
	}
	return c
}

// Deps are the collaborators of an Agent. Store is required; the others
// are only needed by the operations that use them.
type Deps struct {
	Store     store.Store
	Searcher  places.Searcher
	Detector  detector.Analyzer
	Completer llm.Completer
	Feed      feed.Source
	Notifier  notify.Notifier
}

// Agent runs the prospecting operations.
type Agent struct {
	cfg     Config
	deps    Deps
	limiter *rate.Limiter
	now     func() time.Time
}

// New creates an Agent.
func New(cfg Config, deps Deps) *Agent {
	if cfg.ContactThreshold <= 0 {
		cfg.ContactThreshold = heuristic.ContactThreshold
	}
	if len(cfg.Matcher.Skills) == 0 || cfg.Matcher.Now == nil {
		cfg.Matcher = feed.NewMatcher(cfg.Matcher.Skills, cfg.Matcher.MaxAge)
	}
	if deps.Detector == nil {
		deps.Detector = detector.New()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Noop{}
	}

	limit := rate.Inf
	if cfg.ItemDelay > 0 {
		limit = rate.Every(cfg.ItemDelay)
	}
	return &Agent{
		cfg:     cfg,
		deps:    deps,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// Config returns the static configuration of the agent.
func (a *Agent) Config() Config { return a.cfg }

func (a *Agent) events(out Emitter) events {
	if out == nil {
		out = Discard
	}
	return events{out: out, now: a.now}
}

// scanConfig merges the stored agent configuration into the static one.
// A read failure degrades to the static configuration.
func (a *Agent) scanConfig(ctx context.Context, ev events) Config {
	stored, err := a.deps.Store.GetAgentConfig(ctx)
	if err != nil {
		ev.warning("Configuration indisponible, valeurs par défaut utilisées: %v", err)
		return a.cfg
	}
	if stored == nil {
		return a.cfg
	}
	return a.cfg.Merge(*stored)
}

// pace blocks until the next candidate may be processed.
func (a *Agent) pace(ctx context.Context) error {
	return eris.Wrap(a.limiter.Wait(ctx), "prospect: pace")
}

func (a *Agent) complete(ctx context.Context, task prompt.Task, text string) (string, error) {
	if a.deps.Completer == nil {
		return "", ErrNoCompleter
	}
	c, err := a.deps.Completer.Complete(ctx, llm.Request{
		Task:        string(task),
		Prompt:      text,
		Temperature: prompt.Temperature(task),
	})
	if err != nil {
		return "", eris.Wrapf(err, "prospect: %s completion", task)
	}
	return c.Text, nil
}
