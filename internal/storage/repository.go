package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hhgyloh/untisplan-go/internal/plan"
)

// ArchivedPlan is one persisted day plan together with archive metadata.
type ArchivedPlan struct {
	// Date is the plan date in ISO form (YYYY-MM-DD), the primary key.
	Date string `json:"date"`
	// LastUpdate is the monitor's own last-update display string.
	LastUpdate string `json:"lastUpdate"`
	// Plan is the full normalized day plan.
	Plan *plan.DayPlan `json:"plan"`
	// FetchedAt is when this snapshot was stored, Unix seconds.
	FetchedAt int64 `json:"fetchedAt"`
}

const dateKeyFormat = "2006-01-02"

// SavePlan inserts or replaces the archived plan for its date. The latest
// snapshot wins; the archive keeps one document per day.
func (db *DB) SavePlan(ctx context.Context, p *plan.DayPlan) error {
	document, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	query := `
		INSERT INTO plans (date, last_update, document, fetched_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			last_update = excluded.last_update,
			document = excluded.document,
			fetched_at = excluded.fetched_at
	`
	start := time.Now()
	dateKey := p.Date.Format(dateKeyFormat)
	_, err = db.conn.ExecContext(ctx, query, dateKey, p.LastUpdate, string(document), time.Now().Unix())
	if err != nil {
		slog.ErrorContext(ctx, "failed to save plan",
			"date", dateKey,
			"error", err)
		return fmt.Errorf("failed to save plan: %w", err)
	}

	// Warn on slow queries (>100ms)
	if duration := time.Since(start); duration > 100*time.Millisecond {
		slog.WarnContext(ctx, "slow database operation",
			"operation", "SavePlan",
			"duration_ms", duration.Milliseconds(),
			"date", dateKey)
	}
	return nil
}

// GetPlan retrieves the archived plan for a date. Returns nil when no
// snapshot for that day was ever stored.
func (db *DB) GetPlan(ctx context.Context, date time.Time) (*ArchivedPlan, error) {
	query := `SELECT date, last_update, document, fetched_at FROM plans WHERE date = ?`

	var (
		archived ArchivedPlan
		document string
	)
	err := db.conn.QueryRowContext(ctx, query, date.UTC().Format(dateKeyFormat)).Scan(
		&archived.Date,
		&archived.LastUpdate,
		&document,
		&archived.FetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to query plan",
			"date", date.Format(dateKeyFormat),
			"error", err)
		return nil, fmt.Errorf("query plan: %w", err)
	}

	archived.Plan = &plan.DayPlan{}
	if err := json.Unmarshal([]byte(document), archived.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode archived plan %s: %w", archived.Date, err)
	}
	return &archived, nil
}

// ListRecent returns up to limit archived plans, newest plan date first.
func (db *DB) ListRecent(ctx context.Context, limit int) ([]*ArchivedPlan, error) {
	query := `SELECT date, last_update, document, fetched_at FROM plans ORDER BY date DESC LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent plans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var plans []*ArchivedPlan
	for rows.Next() {
		var (
			archived ArchivedPlan
			document string
		)
		if err := rows.Scan(&archived.Date, &archived.LastUpdate, &document, &archived.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan archived plan: %w", err)
		}
		archived.Plan = &plan.DayPlan{}
		if err := json.Unmarshal([]byte(document), archived.Plan); err != nil {
			return nil, fmt.Errorf("failed to decode archived plan %s: %w", archived.Date, err)
		}
		plans = append(plans, &archived)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived plans: %w", err)
	}
	return plans, nil
}

// CountPlans returns the number of archived plans.
func (db *DB) CountPlans(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count plans: %w", err)
	}
	return count, nil
}
