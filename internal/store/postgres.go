package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/chartview/internal/typeid"
)

const schema = `
CREATE TABLE IF NOT EXISTS chart_snapshots (
	id         TEXT PRIMARY KEY,
	chart_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	width      DOUBLE PRECISION NOT NULL,
	height     DOUBLE PRECISION NOT NULL,
	option     JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (chart_id, version)
)`

// Postgres stores snapshots in a chart_snapshots table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to databaseURL and creates the table if needed.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Save writes the next version of chartID inside one transaction.
func (p *Postgres) Save(ctx context.Context, chartID string, width, height float64, option json.RawMessage) (*Snapshot, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var next int32
	err = tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM chart_snapshots WHERE chart_id = $1`,
		chartID).Scan(&next)
	if err != nil {
		return nil, fmt.Errorf("next version: %w", err)
	}

	snap := &Snapshot{
		ID:      typeid.NewSnapshotID(),
		ChartID: chartID,
		Version: next,
		Width:   width,
		Height:  height,
		Option:  option,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO chart_snapshots (id, chart_id, version, width, height, option)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		snap.ID, snap.ChartID, snap.Version, snap.Width, snap.Height, []byte(option)).Scan(&snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return snap, nil
}

func (p *Postgres) Latest(ctx context.Context, chartID string) (*Snapshot, error) {
	var snap Snapshot
	var option []byte
	err := p.pool.QueryRow(ctx,
		`SELECT id, chart_id, version, width, height, option, created_at
		 FROM chart_snapshots WHERE chart_id = $1
		 ORDER BY version DESC LIMIT 1`,
		chartID).Scan(&snap.ID, &snap.ChartID, &snap.Version, &snap.Width, &snap.Height, &option, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	snap.Option = option
	return &snap, nil
}

func (p *Postgres) Charts(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT DISTINCT chart_id FROM chart_snapshots ORDER BY chart_id`)
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list charts: %w", err)
	}
	return ids, nil
}

func (p *Postgres) Delete(ctx context.Context, chartID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM chart_snapshots WHERE chart_id = $1`, chartID)
	if err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Close() {
	p.pool.Close()
}
