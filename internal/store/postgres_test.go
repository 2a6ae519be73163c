package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

var leadRowColumns = []string{
	"google_place_id", "business_name", "address", "phone", "website",
	"google_rating", "reviews_count", "category", "estimated_size", "has_website",
	"website_analysis", "score", "reasoning", "message_generated", "fetched_at",
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS google_maps_leads`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LeadExists(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM google_maps_leads`).
		WithArgs("place-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.LeadExists(context.Background(), "place-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LeadExists_Error(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("place-1").
		WillReturnError(errors.New("connection reset"))

	_, err := s.LeadExists(context.Background(), "place-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lead exists place-1")
}

func TestPostgresStore_UpsertLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "google_maps_leads" .* ON CONFLICT \("google_place_id"\) DO UPDATE`).
		WithArgs("place-1", "Boulangerie Martin", "1 rue de Lyon", "", "https://martin.fr",
			4.6, 87, "bakery", "small", true, pgxmock.AnyArg(), 8, "raison", "Bonjour", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertLead(context.Background(), model.LeadRecord{
		PlaceID:        "place-1",
		BusinessName:   "Boulangerie Martin",
		Address:        "1 rue de Lyon",
		Website:        "https://martin.fr",
		Rating:         4.6,
		ReviewCount:    87,
		Category:       "bakery",
		EstimatedSize:  model.SizeSmall,
		HasWebsite:     true,
		WebsiteSignals: &model.WebsiteSignals{Exists: true, HasSSL: true},
		Score:          8,
		Reasoning:      "raison",
		Message:        "Bonjour",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM google_maps_leads WHERE google_place_id = \$1`).
		WithArgs("place-1").
		WillReturnRows(pgxmock.NewRows(leadRowColumns).AddRow(
			"place-1", "Garage Dupont", "2 av. Jean Jaurès", "04 78 00 00 00", "",
			4.2, 35, "car_repair", "medium", false,
			[]byte(`{"exists":false,"has_ssl":false,"issues":[],"opportunities":["Création d'un site web professionnel"]}`),
			9, "pas de site", "Bonjour", now,
		))

	lead, err := s.GetLead(context.Background(), "place-1")
	require.NoError(t, err)
	assert.Equal(t, "Garage Dupont", lead.BusinessName)
	assert.Equal(t, model.SizeMedium, lead.EstimatedSize)
	require.NotNil(t, lead.WebsiteSignals)
	assert.Equal(t, []string{"Création d'un site web professionnel"}, lead.WebsiteSignals.Opportunities)
	assert.Equal(t, 9, lead.Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetLead_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM google_maps_leads WHERE google_place_id`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetLead(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLeads_Filter(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`AND score >= \$1 ORDER BY score DESC, fetched_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(6, 10, 20).
		WillReturnRows(pgxmock.NewRows(leadRowColumns).
			AddRow("a", "A", "", "", "", 4.0, 12, "florist", "small", false, []byte("null"), 9, "", "m", now).
			AddRow("b", "B", "", "", "", 3.9, 40, "plumber", "small", false, []byte("null"), 7, "", "m", now))

	leads, err := s.ListLeads(context.Background(), LeadFilter{MinScore: 6, Limit: 10, Offset: 20})
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "a", leads[0].PlaceID)
	assert.Nil(t, leads[0].WebsiteSignals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListLeads_DefaultLimit(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`LIMIT \$1`).
		WithArgs(defaultListLimit).
		WillReturnRows(pgxmock.NewRows(leadRowColumns))

	leads, err := s.ListLeads(context.Background(), LeadFilter{})
	require.NoError(t, err)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProjectExists(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM codeur_projects`).
		WithArgs("https://www.codeur.com/projects/1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := s.ProjectExists(context.Background(), "https://www.codeur.com/projects/1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertProject(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	score := 8

	mock.ExpectExec(`INSERT INTO "codeur_projects" .* ON CONFLICT \("url"\)`).
		WithArgs("https://www.codeur.com/projects/1", "Site vitrine", "desc", true, "Bonjour", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.UpsertProject(context.Background(), model.ProjectRecord{
		URL:              "https://www.codeur.com/projects/1",
		Title:            "Site vitrine",
		Description:      "desc",
		Matched:          true,
		MessageGenerated: "Bonjour",
		Score:            &score,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProjects_MatchedOnly(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	score := 7

	mock.ExpectQuery(`FROM codeur_projects WHERE 1=1 AND matched = true ORDER BY fetched_at DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows([]string{"url", "title", "description", "matched", "message_generated", "score", "fetched_at"}).
			AddRow("u1", "T1", "D1", true, "M1", &score, now))

	projects, err := s.ListProjects(context.Background(), ProjectFilter{MatchedOnly: true, Limit: 5})
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "u1", projects[0].URL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertQualifiedLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "Plomberie Rhône", "Lyon", "plomberie", "manual", pgxmock.AnyArg(),
			8, "CONTACT", "Artisan", "Bon potentiel", "qualified", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	lead := &model.QualifiedLead{
		RawLead: model.RawLead{CompanyName: "Plomberie Rhône", City: "Lyon", Sector: "plomberie", Source: "manual"},
		QualificationResult: model.QualificationResult{
			Score: 8, Verdict: model.VerdictContact, Segment: model.SegmentArtisan, Justification: "Bon potentiel",
		},
	}
	require.NoError(t, s.InsertQualifiedLead(context.Background(), lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "qualified", lead.Status)
	assert.False(t, lead.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InsertMessage_DefaultChannel(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(pgxmock.AnyArg(), "lead-1", "Bonjour", "email", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	msg := &model.MessageRecord{LeadID: "lead-1", Content: "Bonjour"}
	require.NoError(t, s.InsertMessage(context.Background(), msg))
	assert.Equal(t, "email", msg.Channel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAgentConfig_Missing(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM agent_config WHERE id = 1`).
		WillReturnError(pgx.ErrNoRows)

	cfg, err := s.GetAgentConfig(context.Background())
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAgentConfig(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`FROM agent_config WHERE id = 1`).
		WillReturnRows(pgxmock.NewRows([]string{"zones", "radius", "max_results_per_zone", "min_reviews", "min_rating", "priority_sectors", "updated_at"}).
			AddRow([]byte(`["Lyon 3e"]`), 3000, 20, 10, 3.5, []byte(`["plombier"]`), now))

	cfg, err := s.GetAgentConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"Lyon 3e"}, cfg.Zones)
	assert.Equal(t, []string{"plombier"}, cfg.PrioritySectors)
	assert.Equal(t, 3000, cfg.Radius)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAgentConfig(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO "agent_config" .* ON CONFLICT \("id"\)`).
		WithArgs(1, []byte(`["Villeurbanne"]`), 5000, 15, 20, 4.0, []byte(`[]`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SaveAgentConfig(context.Background(), model.AgentConfig{
		Zones: []string{"Villeurbanne"}, Radius: 5000, MaxResultsPerZone: 15, MinReviews: 20, MinRating: 4.0,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Close_NoCloseFn(t *testing.T) {
	s := &PostgresStore{}
	assert.NoError(t, s.Close())
}
