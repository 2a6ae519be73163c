package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/internal/db"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists the per-item dedup lookups, which run once for
// every candidate of a scan.
var preparedStatements = map[string]string{
	"lead_exists":    `SELECT EXISTS (SELECT 1 FROM google_maps_leads WHERE google_place_id = $1)`,
	"project_exists": `SELECT EXISTS (SELECT 1 FROM codeur_projects WHERE url = $1)`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS google_maps_leads (
	google_place_id   TEXT PRIMARY KEY,
	business_name     TEXT NOT NULL,
	address           TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	website           TEXT NOT NULL DEFAULT '',
	google_rating     DOUBLE PRECISION NOT NULL DEFAULT 0,
	reviews_count     INTEGER NOT NULL DEFAULT 0,
	category          TEXT NOT NULL DEFAULT '',
	estimated_size    TEXT NOT NULL DEFAULT 'small',
	has_website       BOOLEAN NOT NULL DEFAULT false,
	website_analysis  JSONB,
	score             INTEGER NOT NULL DEFAULT 0,
	reasoning         TEXT NOT NULL DEFAULT '',
	message_generated TEXT NOT NULL DEFAULT '',
	fetched_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_google_maps_leads_score ON google_maps_leads(score DESC);

CREATE TABLE IF NOT EXISTS codeur_projects (
	url               TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	matched           BOOLEAN NOT NULL DEFAULT false,
	message_generated TEXT NOT NULL DEFAULT '',
	score             INTEGER,
	fetched_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id            TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company_name  TEXT NOT NULL,
	city          TEXT NOT NULL DEFAULT '',
	sector        TEXT NOT NULL DEFAULT '',
	source        TEXT NOT NULL DEFAULT '',
	raw_data      JSONB,
	score         INTEGER NOT NULL,
	verdict       TEXT NOT NULL,
	segment       TEXT NOT NULL,
	justification TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_status ON leads(status);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id    TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	channel    TEXT NOT NULL DEFAULT 'email',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_messages_lead_id ON messages(lead_id);

CREATE TABLE IF NOT EXISTS agent_config (
	id                   INTEGER PRIMARY KEY CHECK (id = 1),
	zones                JSONB NOT NULL,
	radius               INTEGER NOT NULL,
	max_results_per_zone INTEGER NOT NULL,
	min_reviews          INTEGER NOT NULL,
	min_rating           DOUBLE PRECISION NOT NULL,
	priority_sectors     JSONB NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) LeadExists(ctx context.Context, placeID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, preparedStatements["lead_exists"], placeID).Scan(&ok)
	return ok, eris.Wrapf(err, "postgres: lead exists %s", placeID)
}

func (s *PostgresStore) UpsertLead(ctx context.Context, lead model.LeadRecord) error {
	stampNow(&lead.FetchedAt)
	analysis, err := encodeSignals(lead.WebsiteSignals)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, upsertLeadSQL(db.Dollar), leadArgs(lead, analysis)...)
	return eris.Wrapf(err, "postgres: upsert lead %s", lead.PlaceID)
}

const pgLeadSelect = `SELECT google_place_id, business_name, address, phone, website,
	google_rating, reviews_count, category, estimated_size, has_website,
	website_analysis, score, reasoning, message_generated, fetched_at
	FROM google_maps_leads`

func (s *PostgresStore) GetLead(ctx context.Context, placeID string) (*model.LeadRecord, error) {
	row := s.pool.QueryRow(ctx, pgLeadSelect+` WHERE google_place_id = $1`, placeID)
	l, err := scanPgLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "lead %s", placeID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get lead %s", placeID)
	}
	return l, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.LeadRecord, error) {
	query := pgLeadSelect + ` WHERE 1=1`
	var args []any
	argIdx := 1

	if filter.MinScore > 0 {
		query += fmt.Sprintf(` AND score >= $%d`, argIdx)
		args = append(args, filter.MinScore)
		argIdx++
	}
	query += ` ORDER BY score DESC, fetched_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.LeadRecord
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan lead")
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func scanPgLead(row scannable) (*model.LeadRecord, error) {
	var l model.LeadRecord
	var size string
	var analysis []byte
	err := row.Scan(&l.PlaceID, &l.BusinessName, &l.Address, &l.Phone, &l.Website,
		&l.Rating, &l.ReviewCount, &l.Category, &size, &l.HasWebsite,
		&analysis, &l.Score, &l.Reasoning, &l.Message, &l.FetchedAt)
	if err != nil {
		return nil, err
	}
	l.EstimatedSize = model.Size(size)
	if l.WebsiteSignals, err = decodeSignals(analysis); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) ProjectExists(ctx context.Context, url string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx, preparedStatements["project_exists"], url).Scan(&ok)
	return ok, eris.Wrapf(err, "postgres: project exists %s", url)
}

func (s *PostgresStore) UpsertProject(ctx context.Context, project model.ProjectRecord) error {
	stampNow(&project.FetchedAt)
	_, err := s.pool.Exec(ctx, upsertProjectSQL(db.Dollar), projectArgs(project)...)
	return eris.Wrapf(err, "postgres: upsert project %s", project.URL)
}

func (s *PostgresStore) ListProjects(ctx context.Context, filter ProjectFilter) ([]model.ProjectRecord, error) {
	query := `SELECT url, title, description, matched, message_generated, score, fetched_at
		FROM codeur_projects WHERE 1=1`
	var args []any
	argIdx := 1

	if filter.MatchedOnly {
		query += ` AND matched = true`
	}
	query += ` ORDER BY fetched_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list projects")
	}
	defer rows.Close()

	var projects []model.ProjectRecord
	for rows.Next() {
		var p model.ProjectRecord
		if err := rows.Scan(&p.URL, &p.Title, &p.Description, &p.Matched,
			&p.MessageGenerated, &p.Score, &p.FetchedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan project")
		}
		projects = append(projects, p)
	}
	return projects, eris.Wrap(rows.Err(), "postgres: list projects iterate")
}

func (s *PostgresStore) InsertQualifiedLead(ctx context.Context, lead *model.QualifiedLead) error {
	prepareQualified(lead)
	raw, err := json.Marshal(lead.RawData)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal raw data")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, company_name, city, sector, source, raw_data, score, verdict, segment, justification, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		lead.ID, lead.CompanyName, lead.City, lead.Sector, lead.Source, raw,
		lead.Score, string(lead.Verdict), string(lead.Segment), lead.Justification,
		lead.Status, lead.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert lead")
}

func (s *PostgresStore) InsertMessage(ctx context.Context, msg *model.MessageRecord) error {
	prepareMessage(msg)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO messages (id, lead_id, content, channel, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.LeadID, msg.Content, msg.Channel, msg.CreatedAt,
	)
	return eris.Wrap(err, "postgres: insert message")
}

func (s *PostgresStore) GetAgentConfig(ctx context.Context) (*model.AgentConfig, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT zones, radius, max_results_per_zone, min_reviews, min_rating, priority_sectors, updated_at
		 FROM agent_config WHERE id = 1`,
	)

	var cfg model.AgentConfig
	var zones, sectors []byte
	err := row.Scan(&zones, &cfg.Radius, &cfg.MaxResultsPerZone, &cfg.MinReviews,
		&cfg.MinRating, &sectors, &cfg.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get agent config")
	}
	if err := decodeLists(zones, sectors, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *PostgresStore) SaveAgentConfig(ctx context.Context, cfg model.AgentConfig) error {
	zones, sectors, err := encodeLists(cfg)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, upsertConfigSQL(db.Dollar),
		1, zones, cfg.Radius, cfg.MaxResultsPerZone, cfg.MinReviews,
		cfg.MinRating, sectors, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: save agent config")
}

func prepareQualified(lead *model.QualifiedLead) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	if lead.Status == "" {
		lead.Status = lead.QualificationResult.Status()
	}
	stampNow(&lead.CreatedAt)
}

func prepareMessage(msg *model.MessageRecord) {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Channel == "" {
		msg.Channel = "email"
	}
	stampNow(&msg.CreatedAt)
}

func encodeLists(cfg model.AgentConfig) ([]byte, []byte, error) {
	zones, err := json.Marshal(nonNil(cfg.Zones))
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal zones")
	}
	sectors, err := json.Marshal(nonNil(cfg.PrioritySectors))
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal priority sectors")
	}
	return zones, sectors, nil
}

func decodeLists(zones, sectors []byte, cfg *model.AgentConfig) error {
	if err := json.Unmarshal(zones, &cfg.Zones); err != nil {
		return eris.Wrap(err, "store: unmarshal zones")
	}
	if err := json.Unmarshal(sectors, &cfg.PrioritySectors); err != nil {
		return eris.Wrap(err, "store: unmarshal priority sectors")
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
