package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"opportunity/discovery-service/internal/model"
)

//go:embed schema.sql
var schemaSQL string

const recordColumns = `id, title, link, description, organizer, eligibility_text, deadline,
	type, source_domain, relevance_score, discovered_at, last_seen_at`

// Postgres stores records in the opportunities table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the table and indexes if they are missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts rec or merges it into the existing row in one statement.
func (p *Postgres) Upsert(ctx context.Context, rec model.OpportunityRecord) (model.OpportunityRecord, error) {
	row := p.pool.QueryRow(ctx,
		`INSERT INTO opportunities (`+recordColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (id) DO UPDATE SET
		   title            = COALESCE(NULLIF(EXCLUDED.title, ''), opportunities.title),
		   link             = EXCLUDED.link,
		   description      = COALESCE(NULLIF(EXCLUDED.description, ''), opportunities.description),
		   organizer        = COALESCE(NULLIF(EXCLUDED.organizer, ''), opportunities.organizer),
		   eligibility_text = COALESCE(NULLIF(EXCLUDED.eligibility_text, ''), opportunities.eligibility_text),
		   deadline         = COALESCE(EXCLUDED.deadline, opportunities.deadline),
		   type             = EXCLUDED.type,
		   source_domain    = COALESCE(NULLIF(EXCLUDED.source_domain, ''), opportunities.source_domain),
		   relevance_score  = EXCLUDED.relevance_score,
		   last_seen_at     = GREATEST(EXCLUDED.last_seen_at, opportunities.last_seen_at)
		 RETURNING `+recordColumns,
		rec.ID, rec.Title, rec.Link, rec.Description, rec.Organizer, rec.EligibilityText, rec.Deadline,
		string(rec.Type), rec.SourceDomain, rec.RelevanceScore, rec.DiscoveredAt, rec.LastSeenAt,
	)
	out, err := scanRecord(row)
	if err != nil {
		return model.OpportunityRecord{}, fmt.Errorf("upsert opportunity %s: %w", rec.ID, err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (model.OpportunityRecord, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+recordColumns+` FROM opportunities WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.OpportunityRecord{}, ErrNotFound
	}
	if err != nil {
		return model.OpportunityRecord{}, fmt.Errorf("get opportunity %s: %w", id, err)
	}
	return rec, nil
}

func (p *Postgres) ListRecent(ctx context.Context, limit int, typ *model.OpportunityType) ([]model.OpportunityRecord, error) {
	var (
		rows pgx.Rows
		err  error
		lim  any = limit
	)
	if limit <= 0 {
		lim = nil // LIMIT NULL is no limit
	}
	if typ != nil {
		rows, err = p.pool.Query(ctx,
			`SELECT `+recordColumns+` FROM opportunities WHERE type = $1
			 ORDER BY last_seen_at DESC, id LIMIT $2`, string(*typ), lim)
	} else {
		rows, err = p.pool.Query(ctx,
			`SELECT `+recordColumns+` FROM opportunities
			 ORDER BY last_seen_at DESC, id LIMIT $1`, lim)
	}
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	out := make([]model.OpportunityRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list opportunities scan: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (model.OpportunityRecord, error) {
	var (
		rec model.OpportunityRecord
		typ string
	)
	err := row.Scan(
		&rec.ID, &rec.Title, &rec.Link, &rec.Description, &rec.Organizer, &rec.EligibilityText,
		&rec.Deadline, &typ, &rec.SourceDomain, &rec.RelevanceScore, &rec.DiscoveredAt, &rec.LastSeenAt,
	)
	if err != nil {
		return model.OpportunityRecord{}, err
	}
	rec.Type = model.OpportunityType(typ)
	rec.DiscoveredAt = rec.DiscoveredAt.UTC()
	rec.LastSeenAt = rec.LastSeenAt.UTC()
	rec.IsCached = true
	return rec, nil
}
