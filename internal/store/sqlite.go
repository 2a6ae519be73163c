package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/Loan69/ai-agent-prospection/internal/db"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: conn}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS google_maps_leads (
	google_place_id   TEXT PRIMARY KEY,
	business_name     TEXT NOT NULL,
	address           TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	google_rating     REAL NOT NULL DEFAULT 0,
	reviews_count     INTEGER NOT NULL DEFAULT 0,
	category          TEXT NOT NULL DEFAULT '',
	estimated_size    TEXT NOT NULL DEFAULT 'small',
	has_website       INTEGER NOT NULL DEFAULT 0,
	website_analysis  TEXT,
	score             INTEGER NOT NULL DEFAULT 0,
	reasoning         TEXT NOT NULL DEFAULT '',
	message_generated TEXT NOT NULL DEFAULT '',
	fetched_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_google_maps_leads_score ON google_maps_leads(score);

CREATE TABLE IF NOT EXISTS codeur_projects (
	url               TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	matched           INTEGER NOT NULL DEFAULT 0,
	message_generated TEXT NOT NULL DEFAULT '',
	score             INTEGER,
	fetched_at        DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY,
	company_name  TEXT NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	sector        TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT '',
	raw_data      TEXT,
	score         INTEGER NOT NULL,
	verdict       TEXT NOT NULL,
	segment       TEXT NOT NULL,
	justification TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	lead_id    TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	channel    TEXT NOT NULL DEFAULT 'email',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);

CREATE TABLE IF NOT EXISTS agent_config (
	id                   INTEGER PRIMARY KEY CHECK (id = 1),
	zones                TEXT NOT NULL,
	radius               INTEGER NOT NULL,
	max_results_per_zone INTEGER NOT NULL,
	min_reviews          INTEGER NOT NULL,
	min_rating           REAL NOT NULL,
	priority_sectors     TEXT NOT NULL,
	updated_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LeadExists(ctx context.Context, placeID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM google_maps_leads WHERE google_place_id = ?)`, placeID,
	).Scan(&ok)
	return ok, eris.Wrapf(err, "sqlite: lead exists %s", placeID)
}

func (s *SQLiteStore) UpsertLead(ctx context.Context, lead model.LeadRecord) error {
	stampNow(&lead.FetchedAt)
	analysis, err := encodeSignals(lead.WebsiteSignals)
	if err != nil {
		return err
	}
	var text sql.NullString
	if analysis != nil {
		text = sql.NullString{String: string(analysis), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, upsertLeadSQL(db.Question), leadArgs(lead, text)...)
	return eris.Wrapf(err, "sqlite: upsert lead %s", lead.PlaceID)
}

const sqliteLeadSelect = `SELECT google_place_id, business_name, address, phone, website,
	google_rating, reviews_count, category, estimated_size, has_website,
	website_analysis, score, reasoning, message_generated, fetched_at
	FROM google_maps_leads`

func (s *SQLiteStore) GetLead(ctx context.Context, placeID string) (*model.LeadRecord, error) {
	row := s.db.QueryRowContext(ctx, sqliteLeadSelect+` WHERE google_place_id = ?`, placeID)
	l, err := scanSQLiteLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "lead %s", placeID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get lead %s", placeID)
	}
	return l, nil
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error) {
	query := sqliteLeadSelect + ` WHERE 1=1`
	var args []any

	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY score DESC, fetched_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close() //nolint:errcheck

	var leads []model.LeadRecord
	for rows.Next() {
		l, err := scanSQLiteLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

func scanSQLiteLead(row scannable) (*model.LeadRecord, error) {
	var l model.LeadRecord
	var size string
	var analysis sql.NullString
	err := row.Scan(&l.PlaceID, &l.BusinessName, &l.Address, &l.Phone, &l.Website,
		&l.Rating, &l.ReviewCount, &l.Category, &size, &l.HasWebsite,
		&analysis, &l.Score, &l.Reasoning, &l.Message, &l.FetchedAt)
	if err != nil {
		return nil, err
	}
	l.EstimatedSize = model.Size(size)
	if analysis.Valid {
		if l.WebsiteSignals, err = decodeSignals([]byte(analysis.String)); err != nil {
			return nil, err
		}
	}
	return &l, nil
}

func (s *SQLiteStore) ProjectExists(ctx context.Context, url string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM codeur_projects WHERE url = ?)`, url,
	).Scan(&ok)
	return ok, eris.Wrapf(err, "sqlite: project exists %s", url)
}

func (s *SQLiteStore) UpsertProject(ctx context.Context, project model.ProjectRecord) error {
	stampNow(&project.FetchedAt)
	_, err := s.db.ExecContext(ctx, upsertProjectSQL(db.Question), projectArgs(project)...)
	return eris.Wrapf(err, "sqlite: upsert project %s", project.URL)
}

func (s *SQLiteStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.ProjectRecord, error) {
	query := `SELECT url, title, description, matched, message_generated, score, fetched_at
		FROM codeur_projects WHERE 1=1`
	var args []any

	if filter.MatchedOnly {
		query += ` AND matched = 1`
	}
	query += ` ORDER BY fetched_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close() //nolint:errcheck

	var projects []model.ProjectRecord
	for rows.Next() {
		var p model.ProjectRecord
		var score sql.NullInt64
		if err := rows.Scan(&p.URL, &p.Title, &p.Description, &p.Matched,
			&p.MessageGenerated, &score, &p.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan project")
		}
		if score.Valid {
			v := int(score.Int64)
			p.Score = &v
		}
		projects = append(projects, p)
	}
	return projects, eris.Wrap(rows.Err(), "sqlite: list projects iterate")
}

func (s *SQLiteStore) InsertQualifiedLead(ctx context.Context, lead *model.QualifiedLead) error {
	prepareQualified(lead)
	raw, err := json.Marshal(lead.RawData)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal raw data")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, company_name, city, sector, source, raw_data, score, verdict, segment, justification, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lead.ID, lead.CompanyName, lead.City, lead.Sector, lead.Source, string(raw),
		lead.Score, string(lead.Verdict), string(lead.Segment), lead.Justification,
		lead.Status, lead.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert lead")
}

func (s *SQLiteStore) InsertMessage(ctx context.Context, msg *model.MessageRecord) error {
	prepareMessage(msg)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, lead_id, content, channel, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.LeadID, msg.Content, msg.Channel, msg.CreatedAt,
	)
	return eris.Wrap(err, "sqlite: insert message")
}

func (s *SQLiteStore) GetAgentConfig(ctx context.Context) (*model.AgentConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT zones, radius, max_results_per_zone, min_reviews, min_rating, priority_sectors, updated_at
		 FROM agent_config WHERE id = 1`,
	)

	var cfg model.AgentConfig
	var zones, sectors string
	err := row.Scan(&zones, &cfg.Radius, &cfg.MaxResultsPerZone, &cfg.MinReviews,
		&cfg.MinRating, &sectors, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get agent config")
	}
	if err := decodeLists([]byte(zones), []byte(sectors), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *SQLiteStore) SaveAgentConfig(ctx context.Context, cfg model.AgentConfig) error {
	zones, sectors, err := encodeLists(cfg)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, upsertConfigSQL(db.Question),
		1, string(zones), cfg.Radius, cfg.MaxResultsPerZone, cfg.MinReviews,
		cfg.MinRating, string(sectors), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: save agent config")
}
