// Package server exposes the prospecting agent over HTTP. Scans stream
// their progress as Server-Sent Events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/prospect"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

// Agent is the subset of *prospect.Agent served over HTTP.
type Agent interface {
	PlacesRun(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)
	FeedRun(ctx context.Context, out prospect.Emitter) (prospect.Tally, error)
	Qualify(ctx context.Context, lead model.RawLead) (*model.QualifiedLead, error)
	GenerateMessage(ctx context.Context, in model.MessageInput) (*model.GeneratedMessage, error)
}

// Option configures a Server.
type Option func(*Server)

// WithCORSOrigins sets the allowed browser origins. Defaults to "*".
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// WithDefaultConfig sets the agent configuration reported while none is stored.
func WithDefaultConfig(cfg model.AgentConfig) Option {
	return func(s *Server) { s.defaults = cfg }
}

// Server routes the HTTP API.
type Server struct {
	agent    Agent
	store    store.Store
	origins  []string
	defaults model.AgentConfig
	now      func() time.Time
	router   chi.Router
}

// New creates a Server.
func New(agent Agent, st store.Store, opts ...Option) *Server {
	s := &Server{
		agent:   agent,
		store:   st,
		origins: []string{"*"},
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/fetch-google-leads", s.stream("places", s.agent.PlacesRun))
		r.Get("/fetch-codeur-rss", s.stream("feed", s.agent.FeedRun))
		r.Post("/qualify-lead", s.handleQualify)
		r.Post("/generate-message", s.handleMessage)
		r.Post("/generate-audit", s.handleAudit)
		r.Get("/config", s.handleGetConfig)
		r.Post("/config", s.handleSaveConfig)
		r.Post("/update-config", s.handleSaveConfig)
		r.Get("/leads", s.handleLeads)
		r.Get("/projects", s.handleProjects)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into v, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(key + " must be a non-negative integer")
	}
	return n, nil
}
