// Package store persists scored leads, feed projects, qualifications,
// messages and the agent configuration.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/internal/db"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = eris.New("store: not found")

// LeadFilter specifies criteria for listing places leads.
type LeadFilter struct {
	MinScore int `json:"min_score,omitempty"`
	Limit    int `json:"limit,omitempty"`
	Offset   int `json:"offset,omitempty"`
}

// ProjectFilter specifies criteria for listing feed projects.
type ProjectFilter struct {
	MatchedOnly bool `json:"matched_only,omitempty"`
	Limit       int  `json:"limit,omitempty"`
	Offset      int  `json:"offset,omitempty"`
}

// Store defines the persistence interface of the prospecting agent. It is
// a keyed upsert/read store: places leads are keyed by place id, feed
// projects by URL.
type Store interface {
	// Places leads
	LeadExists(ctx context.Context, placeID string) (bool, error)
	UpsertLead(ctx context.Context, lead model.LeadRecord) error
	GetLead(ctx context.Context, placeID string) (*model.LeadRecord, error)
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error)

	// Feed projects
	ProjectExists(ctx context.Context, url string) (bool, error)
	UpsertProject(ctx context.Context, project model.ProjectRecord) error
	ListProjects(ctx context.Context, filter ProjectFilter) ([]model.ProjectRecord, error)

	// Qualification and messages
	InsertQualifiedLead(ctx context.Context, lead *model.QualifiedLead) error
	InsertMessage(ctx context.Context, msg *model.MessageRecord) error

	// Agent configuration
	GetAgentConfig(ctx context.Context) (*model.AgentConfig, error)
	SaveAgentConfig(ctx context.Context, cfg model.AgentConfig) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 100

var leadColumns = []string{
	"google_place_id", "business_name", "address", "phone", "website",
	"google_rating", "reviews_count", "category", "estimated_size",
	"has_website", "website_analysis", "score", "reasoning",
	"message_generated", "fetched_at",
}

var projectColumns = []string{
	"url", "title", "description", "matched", "message_generated", "score", "fetched_at",
}

var configColumns = []string{
	"id", "zones", "radius", "max_results_per_zone", "min_reviews",
	"min_rating", "priority_sectors", "updated_at",
}

func upsertLeadSQL(ph db.Placeholder) string {
	return db.MustUpsertSQL(db.UpsertConfig{
		Table:        "google_maps_leads",
		Columns:      leadColumns,
		ConflictKeys: []string{"google_place_id"},
	}, ph)
}

func upsertProjectSQL(ph db.Placeholder) string {
	return db.MustUpsertSQL(db.UpsertConfig{
		Table:        "codeur_projects",
		Columns:      projectColumns,
		ConflictKeys: []string{"url"},
	}, ph)
}

func upsertConfigSQL(ph db.Placeholder) string {
	return db.MustUpsertSQL(db.UpsertConfig{
		Table:        "agent_config",
		Columns:      configColumns,
		ConflictKeys: []string{"id"},
	}, ph)
}

// leadArgs orders the lead fields like leadColumns. analysis is the
// encoded website signals, or nil.
func leadArgs(l model.LeadRecord, analysis any) []any {
	return []any{
		l.PlaceID, l.BusinessName, l.Address, l.Phone, l.Website,
		l.Rating, l.ReviewCount, l.Category, string(l.EstimatedSize),
		l.HasWebsite, analysis, l.Score, l.Reasoning,
		l.Message, l.FetchedAt,
	}
}

func projectArgs(p model.ProjectRecord) []any {
	return []any{p.URL, p.Title, p.Description, p.Matched, p.MessageGenerated, p.Score, p.FetchedAt}
}

func encodeSignals(s *model.WebsiteSignals) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	return b, eris.Wrap(err, "store: marshal website analysis")
}

func decodeSignals(b []byte) (*model.WebsiteSignals, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var s model.WebsiteSignals
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal website analysis")
	}
	return &s, nil
}

func stampNow(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

type scannable interface {
	Scan(dest ...any) error
}
