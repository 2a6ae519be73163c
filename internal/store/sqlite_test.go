package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*PostgresStore)(nil)

func TestSQLite_Migrate_Idempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

// --- Places leads ---

func TestSQLite_UpsertLead_ExistsAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	ok, err := st.LeadExists(ctx, "place-1")
	require.NoError(t, err)
	assert.False(t, ok)

	load := int64(1800)
	err = st.UpsertLead(ctx, model.LeadRecord{
		PlaceID:       "place-1",
		BusinessName:  "Coiffure Bellecour",
		Address:       "5 place Bellecour, Lyon",
		Website:       "https://coiffure.example",
		Rating:        4.4,
		ReviewCount:   52,
		Category:      "hair_care",
		EstimatedSize: model.SizeSmall,
		HasWebsite:    true,
		WebsiteSignals: &model.WebsiteSignals{
			Exists:     true,
			HasSSL:     false,
			LoadTimeMs: &load,
			Issues:     []string{"Pas de certificat SSL (HTTPS)"},
		},
		Score:     8,
		Reasoning: "site non sécurisé",
		Message:   "Bonjour",
	})
	require.NoError(t, err)

	ok, err = st.LeadExists(ctx, "place-1")
	require.NoError(t, err)
	assert.True(t, ok)

	lead, err := st.GetLead(ctx, "place-1")
	require.NoError(t, err)
	assert.Equal(t, "Coiffure Bellecour", lead.BusinessName)
	assert.True(t, lead.HasWebsite)
	assert.Equal(t, model.SizeSmall, lead.EstimatedSize)
	require.NotNil(t, lead.WebsiteSignals)
	assert.Equal(t, []string{"Pas de certificat SSL (HTTPS)"}, lead.WebsiteSignals.Issues)
	require.NotNil(t, lead.WebsiteSignals.LoadTimeMs)
	assert.Equal(t, int64(1800), *lead.WebsiteSignals.LoadTimeMs)
	assert.False(t, lead.FetchedAt.IsZero())
}

func TestSQLite_UpsertLead_OverwritesOnConflict(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	base := model.LeadRecord{PlaceID: "p", BusinessName: "Old", Score: 6}
	require.NoError(t, st.UpsertLead(ctx, base))
	base.BusinessName = "New"
	base.Score = 9
	require.NoError(t, st.UpsertLead(ctx, base))

	leads, err := st.ListLeads(ctx, LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "New", leads[0].BusinessName)
	assert.Equal(t, 9, leads[0].Score)
	assert.Nil(t, leads[0].WebsiteSignals)
}

func TestSQLite_GetLead_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.GetLead(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSQLite_ListLeads_FilterOrderPaging(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for _, l := range []model.LeadRecord{
		{PlaceID: "a", BusinessName: "A", Score: 6},
		{PlaceID: "b", BusinessName: "B", Score: 9},
		{PlaceID: "c", BusinessName: "C", Score: 3},
		{PlaceID: "d", BusinessName: "D", Score: 7},
	} {
		require.NoError(t, st.UpsertLead(ctx, l))
	}

	leads, err := st.ListLeads(ctx, LeadFilter{MinScore: 6})
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "b", leads[0].PlaceID)
	assert.Equal(t, "d", leads[1].PlaceID)
	assert.Equal(t, "a", leads[2].PlaceID)

	page, err := st.ListLeads(ctx, LeadFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "d", page[0].PlaceID)
}

// --- Feed projects ---

func TestSQLite_Projects(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	score := 7

	require.NoError(t, st.UpsertProject(ctx, model.ProjectRecord{
		URL: "https://www.codeur.com/projects/1", Title: "Application mobile", Matched: true,
		MessageGenerated: "Bonjour", Score: &score,
	}))
	require.NoError(t, st.UpsertProject(ctx, model.ProjectRecord{
		URL: "https://www.codeur.com/projects/2", Title: "Traduction", Matched: false,
	}))

	ok, err := st.ProjectExists(ctx, "https://www.codeur.com/projects/2")
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := st.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := st.ListProjects(ctx, ProjectFilter{MatchedOnly: true})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.NotNil(t, matched[0].Score)
	assert.Equal(t, 7, *matched[0].Score)
	assert.Equal(t, "Bonjour", matched[0].MessageGenerated)
}

// --- Qualification and messages ---

func TestSQLite_InsertQualifiedLead(t *testing.T) {
	st := newTestSQLiteStore(t)
	lead := &model.QualifiedLead{
		RawLead: model.RawLead{CompanyName: "Cabinet Conseil", RawData: map[string]any{"siren": "123"}},
		QualificationResult: model.QualificationResult{
			Score: 3, Verdict: model.VerdictIgnore, Segment: model.SegmentB2B, Justification: "Trop petit",
		},
	}
	require.NoError(t, st.InsertQualifiedLead(context.Background(), lead))
	assert.Equal(t, "archived", lead.Status)
	assert.NotEmpty(t, lead.ID)

	var status string
	require.NoError(t, st.db.QueryRow(`SELECT status FROM leads WHERE id = ?`, lead.ID).Scan(&status))
	assert.Equal(t, "archived", status)
}

func TestSQLite_InsertMessage(t *testing.T) {
	st := newTestSQLiteStore(t)
	msg := &model.MessageRecord{LeadID: "lead-1", Content: "Bonjour Madame"}
	require.NoError(t, st.InsertMessage(context.Background(), msg))
	assert.Equal(t, "email", msg.Channel)

	var n int
	require.NoError(t, st.db.QueryRow(`SELECT COUNT(*) FROM messages WHERE lead_id = ?`, "lead-1").Scan(&n))
	assert.Equal(t, 1, n)
}

// --- Agent configuration ---

func TestSQLite_AgentConfig(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	cfg, err := st.GetAgentConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	want := model.AgentConfig{
		Zones:             []string{"Lyon 1er", "Lyon 2e"},
		Radius:            2500,
		MaxResultsPerZone: 20,
		MinReviews:        10,
		MinRating:         3.5,
	}
	require.NoError(t, st.SaveAgentConfig(ctx, want))

	want.Radius = 4000
	want.PrioritySectors = []string{"restaurant"}
	require.NoError(t, st.SaveAgentConfig(ctx, want))

	got, err := st.GetAgentConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Zones, got.Zones)
	assert.Equal(t, 4000, got.Radius)
	assert.Equal(t, []string{"restaurant"}, got.PrioritySectors)
	assert.WithinDuration(t, time.Now(), got.UpdatedAt, time.Minute)
}
