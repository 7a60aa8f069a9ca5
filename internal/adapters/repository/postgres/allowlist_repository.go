package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/elections/internal/core/domain"
	"github.com/vncsmyrnk/elections/internal/core/ports"
)

type allowlistRepository struct {
	db *sql.DB
}

func NewAllowlistRepository(db *sql.DB) ports.AllowlistRepository {
	return &allowlistRepository{
		db: db,
	}
}

const allowlistColumns = `voter_code, pin, voted, voted_at, legacy`

func (r *allowlistRepository) FindByCode(ctx context.Context, normalizedCode string) (*domain.AllowlistEntry, error) {
	query := `SELECT ` + allowlistColumns + ` FROM allowlist_entries WHERE voter_code_norm = $1`
	entry, err := scanEntry(r.db.QueryRowContext(ctx, query, normalizedCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get allowlist entry: %w", err)
	}
	return entry, nil
}

func (r *allowlistRepository) Sample(ctx context.Context, limit int) ([]domain.AllowlistEntry, error) {
	query := `SELECT ` + allowlistColumns + ` FROM allowlist_entries ORDER BY created_at LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample allowlist: %w", err)
	}
	defer rows.Close()

	var entries []domain.AllowlistEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allowlist entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allowlist: %w", err)
	}
	return entries, nil
}

func (r *allowlistRepository) Provision(ctx context.Context, entries []domain.AllowlistEntry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO allowlist_entries (voter_code, pin, legacy)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare allowlist statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		legacy, err := json.Marshal(e.Legacy)
		if err != nil {
			return 0, fmt.Errorf("failed to encode legacy fields: %w", err)
		}
		if e.Legacy == nil {
			legacy = []byte("{}")
		}
		res, err := stmt.ExecContext(ctx, e.VoterCode, e.PIN, legacy)
		if err != nil {
			return 0, fmt.Errorf("failed to insert allowlist entry: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, nil
}

func scanEntry(row rowScanner) (*domain.AllowlistEntry, error) {
	var (
		e      domain.AllowlistEntry
		legacy []byte
	)
	if err := row.Scan(&e.VoterCode, &e.PIN, &e.Voted, &e.VotedAt, &legacy); err != nil {
		return nil, err
	}
	fields, err := decodeLegacy(legacy)
	if err != nil {
		return nil, err
	}
	e.Legacy = fields
	return &e, nil
}

// decodeLegacy flattens a legacy JSON object to strings. Older records stored
// numeric ids, so non-string scalars are formatted rather than rejected.
func decodeLegacy(raw []byte) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode legacy fields: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64, bool:
			out[k] = fmt.Sprint(val)
		}
	}
	return out, nil
}
