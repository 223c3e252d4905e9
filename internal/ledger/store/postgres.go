package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"revloop/internal/ledger"
	"revloop/pkg/domain"
)

// Postgres persists ledger entries in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed ledger store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the ledger table if it does not exist. The table is
// append-only; there is no update path.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id           UUID PRIMARY KEY,
			ts           TIMESTAMPTZ NOT NULL,
			loop_id      UUID NOT NULL,
			iteration    INT NOT NULL,
			action       TEXT NOT NULL,
			category     TEXT NOT NULL DEFAULT '',
			campaign_ref TEXT NOT NULL DEFAULT '',
			detail       TEXT NOT NULL DEFAULT '',
			delta        DOUBLE PRECISION NOT NULL DEFAULT 0,
			client_ip    TEXT NOT NULL DEFAULT '',
			client_agent TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_entries_loop ON ledger_entries (loop_id, ts DESC);
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure ledger schema: %w", err)
	}
	return nil
}

// Append inserts one entry.
func (p *Postgres) Append(ctx context.Context, entry ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries
			(id, ts, loop_id, iteration, action, category, campaign_ref, detail, delta, client_ip, client_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := p.db.ExecContext(ctx, query,
		entry.ID.String(),
		entry.Timestamp,
		entry.LoopID.String(),
		entry.Iteration,
		string(entry.Action),
		entry.Category,
		entry.CampaignRef,
		entry.Detail,
		entry.Delta,
		entry.ClientIP,
		entry.ClientAgent,
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// List returns matching entries newest first.
func (p *Postgres) List(ctx context.Context, filter Filter) ([]ledger.Entry, error) {
	var (
		conditions []string
		args       []any
	)
	if !filter.LoopID.IsNil() {
		args = append(args, filter.LoopID.String())
		conditions = append(conditions, fmt.Sprintf("loop_id = $%d", len(args)))
	}
	if len(filter.Categories) > 0 {
		args = append(args, pq.Array(filter.Categories))
		conditions = append(conditions, fmt.Sprintf("category = ANY($%d)", len(args)))
	}

	query := `
		SELECT id, ts, loop_id, iteration, action, category, campaign_ref, detail, delta, client_ip, client_agent
		FROM ledger_entries
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY ts DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []ledger.Entry{}
	for rows.Next() {
		var (
			entry      ledger.Entry
			id, loopID string
			action     string
		)
		if err := rows.Scan(
			&id,
			&entry.Timestamp,
			&loopID,
			&entry.Iteration,
			&action,
			&entry.Category,
			&entry.CampaignRef,
			&entry.Detail,
			&entry.Delta,
			&entry.ClientIP,
			&entry.ClientAgent,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entryID, err := parseEntryID(id)
		if err != nil {
			return nil, err
		}
		parsedLoopID, err := domain.ParseLoopID(loopID)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry loop id: %w", err)
		}
		entry.ID = entryID
		entry.LoopID = parsedLoopID
		entry.Action = ledger.Action(action)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

func parseEntryID(s string) (domain.LedgerEntryID, error) {
	var id domain.LedgerEntryID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return domain.LedgerEntryID{}, fmt.Errorf("scan ledger entry id: %w", err)
	}
	return id, nil
}
