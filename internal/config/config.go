// Package config loads the application configuration from config.yaml,
// dotenv files and PROSPECT_* environment variables.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROSPECT"

// DotenvFiles are loaded, when present, before the environment is read.
// Earlier files win: godotenv never overrides a variable already set.
var DotenvFiles = []string{".env.local", ".env"}

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	LLM      LLMConfig      `yaml:"llm" mapstructure:"llm"`
	Google   GoogleConfig   `yaml:"google" mapstructure:"google"`
	Scan     ScanConfig     `yaml:"scan" mapstructure:"scan"`
	Feed     FeedConfig     `yaml:"feed" mapstructure:"feed"`
	Detector DetectorConfig `yaml:"detector" mapstructure:"detector"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Schedule ScheduleConfig `yaml:"schedule" mapstructure:"schedule"`
	Notify   NotifyConfig   `yaml:"notify" mapstructure:"notify"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// LLMConfig selects and configures the completion backend.
type LLMConfig struct {
	Provider       string `yaml:"provider" mapstructure:"provider"`
	AnthropicKey   string `yaml:"anthropic_key" mapstructure:"anthropic_key"`
	AnthropicModel string `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	GeminiKey      string `yaml:"gemini_key" mapstructure:"gemini_key"`
	GeminiModel    string `yaml:"gemini_model" mapstructure:"gemini_model"`
	BaseURL        string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs    int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout returns the per-completion timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// Key returns the credential of the selected provider.
func (c LLMConfig) Key() string {
	if c.Provider == ProviderGemini {
		return c.GeminiKey
	}
	return c.AnthropicKey
}

// Completion providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// GoogleConfig holds the Places and Geocoding settings.
type GoogleConfig struct {
	PlacesKey  string  `yaml:"places_key" mapstructure:"places_key"`
	PlacesURL  string  `yaml:"places_url" mapstructure:"places_url"`
	GeocodeURL string  `yaml:"geocode_url" mapstructure:"geocode_url"`
	QPS        float64 `yaml:"qps" mapstructure:"qps"`
	// Retries is the number of extra attempts on transient API failures.
	Retries int `yaml:"retries" mapstructure:"retries"`
}

// ScanConfig configures the places scan. Zones, radius, results and filter
// values are overridden by the stored agent configuration.
type ScanConfig struct {
	Zones               []string `yaml:"zones" mapstructure:"zones"`
	Radius              int      `yaml:"radius" mapstructure:"radius"`
	MaxResultsPerZone   int      `yaml:"max_results_per_zone" mapstructure:"max_results_per_zone"`
	Keywords            []string `yaml:"keywords" mapstructure:"keywords"`
	MinReviews          int      `yaml:"min_reviews" mapstructure:"min_reviews"`
	MinRating           float64  `yaml:"min_rating" mapstructure:"min_rating"`
	ContactThreshold    int      `yaml:"contact_threshold" mapstructure:"contact_threshold"`
	ItemDelayMs         int      `yaml:"item_delay_ms" mapstructure:"item_delay_ms"`
	EnforceNoProblemCap bool     `yaml:"enforce_no_problem_cap" mapstructure:"enforce_no_problem_cap"`
}

// FeedConfig configures the project feed scan.
type FeedConfig struct {
	URL         string   `yaml:"url" mapstructure:"url"`
	Skills      []string `yaml:"skills" mapstructure:"skills"`
	MaxAgeHours int      `yaml:"max_age_hours" mapstructure:"max_age_hours"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DetectorConfig configures the website probe.
type DetectorConfig struct {
	TimeoutMs       int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	SlowThresholdMs int    `yaml:"slow_threshold_ms" mapstructure:"slow_threshold_ms"`
	UserAgent       string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// ScheduleConfig holds the cron specs of the periodic scans. An empty spec
// disables the job.
type ScheduleConfig struct {
	Feed   string `yaml:"feed" mapstructure:"feed"`
	Places string `yaml:"places" mapstructure:"places"`
}

// NotifyConfig configures Telegram notifications. Disabled without a token.
type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token" mapstructure:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id" mapstructure:"telegram_chat_id"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	if err := loadDotenv(DotenvFiles...); err != nil {
		return nil, err
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Secrets default to empty so AutomaticEnv binds them on Unmarshal.
	for _, key := range []string{
		"store.database_url", "llm.anthropic_key", "llm.gemini_key", "llm.base_url",
		"google.places_key", "notify.telegram_token",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("notify.telegram_chat_id", 0)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "prospect.db")
	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.anthropic_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	v.SetDefault("llm.timeout_secs", 60)
	v.SetDefault("google.places_url", "https://places.googleapis.com/v1/places:searchText")
	v.SetDefault("google.geocode_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("google.qps", 5)
	v.SetDefault("google.retries", 0)
	v.SetDefault("scan.zones", []string{
		"Lyon 1, France", "Lyon 2, France", "Lyon 3, France",
		"Lyon 6, France", "Lyon 7, France", "Villeurbanne, France",
	})
	v.SetDefault("scan.radius", 3000)
	v.SetDefault("scan.max_results_per_zone", 20)
	v.SetDefault("scan.min_reviews", 10)
	v.SetDefault("scan.min_rating", 3.5)
	v.SetDefault("scan.contact_threshold", 6)
	v.SetDefault("scan.item_delay_ms", 500)
	v.SetDefault("scan.enforce_no_problem_cap", true)
	v.SetDefault("feed.url", "https://www.codeur.com/projects.rss")
	v.SetDefault("feed.skills", []string{"SaaS", "site vitrine", "application mobile", "développement web"})
	v.SetDefault("feed.max_age_hours", 2)
	v.SetDefault("feed.timeout_secs", 15)
	v.SetDefault("detector.timeout_ms", 5000)
	v.SetDefault("detector.slow_threshold_ms", 3000)
	v.SetDefault("detector.user_agent", "Mozilla/5.0 (compatible; ProspectBot/1.0)")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("schedule.feed", "*/30 * * * *")
	v.SetDefault("schedule.places", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func loadDotenv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return eris.Wrapf(err, "config: load %s", f)
		}
	}
	return nil
}

// Validation modes, one per command family.
const (
	ModePlaces          = "places"
	ModePlacesHeuristic = "places-heuristic"
	ModeFeed            = "feed"
	ModeLLM             = "llm"
	ModeServe           = "serve"
	ModeSchedule        = "schedule"
	ModeStore           = "store"
)

// Validate checks the settings a command family needs before any run starts.
func (c *Config) Validate(mode string) error {
	var errs []string
	need := func(ok bool, msg string) {
		if !ok {
			errs = append(errs, msg)
		}
	}

	storeChecks := func() {
		switch c.Store.Driver {
		case "postgres":
			need(c.Store.DatabaseURL != "", "store.database_url is required for postgres")
		case "sqlite":
			need(c.Store.SQLitePath != "", "store.sqlite_path is required for sqlite")
		default:
			errs = append(errs, "store.driver must be sqlite or postgres")
		}
	}
	llmChecks := func() {
		switch c.LLM.Provider {
		case ProviderAnthropic:
			need(c.LLM.AnthropicKey != "", "llm.anthropic_key is required")
		case ProviderGemini:
			need(c.LLM.GeminiKey != "", "llm.gemini_key is required")
		default:
			errs = append(errs, "llm.provider must be anthropic or gemini")
		}
		need(c.LLM.TimeoutSecs > 0, "llm.timeout_secs must be > 0")
	}
	scanChecks := func() {
		need(c.Google.PlacesKey != "", "google.places_key is required")
		need(c.Scan.ContactThreshold >= 0 && c.Scan.ContactThreshold <= 10,
			"scan.contact_threshold must be within [0,10]")
	}

	switch mode {
	case ModePlaces:
		storeChecks()
		scanChecks()
		llmChecks()
	case ModePlacesHeuristic:
		storeChecks()
		scanChecks()
	case ModeFeed:
		storeChecks()
		llmChecks()
		need(c.Feed.URL != "", "feed.url is required")
	case ModeLLM:
		storeChecks()
		llmChecks()
	case ModeServe:
		storeChecks()
		llmChecks()
		need(c.Server.Port > 0, "server.port must be > 0")
	case ModeSchedule:
		storeChecks()
		llmChecks()
		need(c.Schedule.Feed != "" || c.Schedule.Places != "", "schedule.feed or schedule.places is required")
		if c.Schedule.Places != "" {
			scanChecks()
		}
	case ModeStore:
		storeChecks()
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
