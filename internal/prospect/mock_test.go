package prospect

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/Loan69/ai-agent-prospection/internal/llm"
	"github.com/Loan69/ai-agent-prospection/internal/model"
	"github.com/Loan69/ai-agent-prospection/internal/places"
	"github.com/Loan69/ai-agent-prospection/internal/store"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) LeadExists(ctx context.Context, placeID string) (bool, error) {
	args := m.Called(ctx, placeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) UpsertLead(ctx context.Context, lead model.LeadRecord) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockStore) GetLead(ctx context.Context, placeID string) (*model.LeadRecord, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LeadRecord), args.Error(1)
}

func (m *mockStore) ListLeads(ctx context.Context, filter store.LeadFilter) ([]model.LeadRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeadRecord), args.Error(1)
}

func (m *mockStore) ProjectExists(ctx context.Context, url string) (bool, error) {
	args := m.Called(ctx, url)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) UpsertProject(ctx context.Context, project model.ProjectRecord) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *mockStore) ListProjects(ctx context.Context, filter store.ProjectFilter) ([]model.ProjectRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProjectRecord), args.Error(1)
}

func (m *mockStore) InsertQualifiedLead(ctx context.Context, lead *model.QualifiedLead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockStore) InsertMessage(ctx context.Context, msg *model.MessageRecord) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockStore) GetAgentConfig(ctx context.Context) (*model.AgentConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AgentConfig), args.Error(1)
}

func (m *mockStore) SaveAgentConfig(ctx context.Context, cfg model.AgentConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Searcher Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) SearchZone(ctx context.Context, q places.ZoneQuery) ([]model.Place, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Place), args.Error(1)
}

// --- Completer Mock ---

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Completion, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Completion), args.Error(1)
}

// --- Feed Mock ---

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Fetch(ctx context.Context) ([]model.FeedItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FeedItem), args.Error(1)
}

// --- Notifier Mock ---

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) LeadQualified(ctx context.Context, lead model.LeadRecord) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *mockNotifier) ProjectQualified(ctx context.Context, project model.ProjectRecord) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

// --- Detector stub ---

type stubDetector map[string]model.WebsiteSignals

func (s stubDetector) Detect(_ context.Context, url string) model.WebsiteSignals {
	return s[url]
}

// --- Event recorder ---

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) last() Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func (r *recorder) count(t EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func completion(text string) *llm.Completion {
	return &llm.Completion{Text: text, Model: "test-model"}
}
