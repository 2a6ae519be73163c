package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/detector"
	"github.com/Loan69/ai-agent-prospection/internal/feed"
	"github.com/Loan69/ai-agent-prospection/internal/llm"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/notify"
	"github.com/Loan69/ai-agent-prospection/internal/places"
	"github.com/Loan69/ai-agent-prospection/internal/prospect"
	"github.com/Loan69/ai-agent-prospection/internal/resilience"
	"github.com/Loan69/ai-agent-prospection/internal/store"
	anthropicpkg "github.com/Loan69/ai-agent-prospection/pkg/anthropic"
	"github.com/Loan69/ai-agent-prospection/pkg/google"
)

// agentEnv holds the store and the agent built from configuration.
type agentEnv struct {
	Store   store.Store
	Agent   *prospect.Agent
	closers []func() error
}

// Close releases resources held by the environment.
func (e *agentEnv) Close() {
	for _, c := range e.closers {
		if err := c(); err != nil {
			zap.L().Warn("close resource", zap.Error(err))
		}
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initCompleter builds the configured completion backend. It returns a nil
// completer when the provider has no key, for commands that can run without.
func initCompleter(ctx context.Context) (llm.Completer, func() error, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		if cfg.LLM.GeminiKey == "" {
			return nil, nil, nil
		}
		g, err := llm.NewGeminiCompleter(ctx, cfg.LLM.GeminiKey, cfg.LLM.GeminiModel, cfg.LLM.Timeout())
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	default:
		if cfg.LLM.AnthropicKey == "" {
			return nil, nil, nil
		}
		opts := []anthropicpkg.Option{anthropicpkg.WithMaxRetries(0)}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, anthropicpkg.WithBaseURL(cfg.LLM.BaseURL))
		}
		client := anthropicpkg.NewClient(cfg.LLM.AnthropicKey, opts...)
		return llm.NewAnthropicCompleter(client, cfg.LLM.AnthropicModel, cfg.LLM.Timeout()), nil, nil
	}
}

func initSearcher() places.Searcher {
	if cfg.Google.PlacesKey == "" {
		return nil
	}
	client := google.NewClient(cfg.Google.PlacesKey,
		google.WithBaseURL(cfg.Google.PlacesURL),
		google.WithGeocodeURL(cfg.Google.GeocodeURL),
	)
	s := places.NewGoogleSearcher(client, cfg.Google.QPS)
	if cfg.Google.Retries > 0 {
		p := resilience.DefaultPolicy()
		p.Attempts = cfg.Google.Retries + 1
		s.WithRetry(p)
	}
	return s
}

func initDetector() *detector.Detector {
	return detector.New(
		detector.WithTimeout(time.Duration(cfg.Detector.TimeoutMs)*time.Millisecond),
		detector.WithSlowThreshold(time.Duration(cfg.Detector.SlowThresholdMs)*time.Millisecond),
		detector.WithUserAgent(cfg.Detector.UserAgent),
	)
}

func initFeed() feed.Source {
	return feed.NewRSS(cfg.Feed.URL,
		feed.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Feed.TimeoutSecs) * time.Second}),
		feed.WithUserAgent(cfg.Detector.UserAgent),
	)
}

func initNotifier() notify.Notifier {
	if cfg.Notify.TelegramToken == "" {
		return notify.Noop{}
	}
	tg, err := notify.NewTelegram(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID)
	if err != nil {
		zap.L().Warn("telegram notifications disabled", zap.Error(err))
		return notify.Noop{}
	}
	return tg
}

// agentConfig maps the loaded configuration onto the agent's static settings.
func agentConfig(c *config.Config, heuristic bool) prospect.Config {
	pc := prospect.DefaultConfig()
	if len(c.Scan.Zones) > 0 {
		pc.Zones = c.Scan.Zones
	}
	if c.Scan.Radius > 0 {
		pc.Radius = c.Scan.Radius
	}
	if c.Scan.MaxResultsPerZone > 0 {
		pc.MaxResultsPerZone = c.Scan.MaxResultsPerZone
	}
	if len(c.Scan.Keywords) > 0 {
		pc.Keywords = c.Scan.Keywords
	}
	if c.Scan.MinReviews > 0 {
		pc.Filter.MinReviews = c.Scan.MinReviews
	}
	if c.Scan.MinRating > 0 {
		pc.Filter.MinRating = c.Scan.MinRating
	}
	if c.Scan.ContactThreshold > 0 {
		pc.ContactThreshold = c.Scan.ContactThreshold
	}
	pc.ItemDelay = time.Duration(c.Scan.ItemDelayMs) * time.Millisecond
	pc.EnforceNoProblemCap = c.Scan.EnforceNoProblemCap
	pc.Heuristic = heuristic
	pc.Matcher = feed.NewMatcher(c.Feed.Skills, time.Duration(c.Feed.MaxAgeHours)*time.Hour)
	return pc
}

// storedView renders the static scan settings as an agent configuration
// record, reported while none is stored.
func storedView(pc prospect.Config) model.AgentConfig {
	return model.AgentConfig{
		Zones:             pc.Zones,
		Radius:            pc.Radius,
		MaxResultsPerZone: pc.MaxResultsPerZone,
		MinReviews:        pc.Filter.MinReviews,
		MinRating:         pc.Filter.MinRating,
		PrioritySectors:   pc.Keywords,
	}
}

// initAgent validates the configuration for mode and builds the agent
// environment. Callers should defer env.Close().
func initAgent(ctx context.Context, mode string, heuristic bool) (*agentEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	env := &agentEnv{Store: st}

	completer, closer, err := initCompleter(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	if closer != nil {
		env.closers = append(env.closers, closer)
	}

	env.Agent = prospect.New(agentConfig(cfg, heuristic), prospect.Deps{
		Store:     st,
		Searcher:  initSearcher(),
		Detector:  initDetector(),
		Completer: completer,
		Feed:      initFeed(),
		Notifier:  initNotifier(),
	})
	return env, nil
}
