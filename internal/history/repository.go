package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// ScanRecord is one archived scan without its signal payload
type ScanRecord struct {
	ID           int64                `json:"id"`
	At           time.Time            `json:"at"`
	Config       contracts.ScanConfig `json:"config"`
	UniverseSize int                  `json:"universe_size"`
	Analyzed     int                  `json:"analyzed"`
	Skipped      int                  `json:"skipped"`
	SignalCount  int                  `json:"signal_count"`
	ProviderDown bool                 `json:"provider_down"`
}

// ErrNoScans is returned when the archive holds no usable scan yet
var ErrNoScans = errors.New("no archived scans")

// Repository persists scan outcomes. Archival is optional: the pipeline
// works without a database, so every caller treats this layer as additive.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new scan archive repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the archive table when it does not exist yet
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS scans (
			id            BIGSERIAL PRIMARY KEY,
			scanned_at    TIMESTAMPTZ NOT NULL,
			config        JSONB NOT NULL,
			universe_size INT NOT NULL,
			analyzed      INT NOT NULL,
			skipped       INT NOT NULL,
			provider_down BOOLEAN NOT NULL DEFAULT FALSE,
			signals       JSONB NOT NULL DEFAULT '[]',
			signal_count  INT NOT NULL DEFAULT 0,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans (scanned_at DESC);
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure scans schema: %w", err)
	}
	return nil
}

// SaveScan archives one scan outcome with its full signal list
func (r *Repository) SaveScan(ctx context.Context, result *contracts.ScanResult) (int64, error) {
	configJSON, err := json.Marshal(result.Config)
	if err != nil {
		return 0, fmt.Errorf("marshal scan config: %w", err)
	}
	signalsJSON, err := json.Marshal(result.Signals)
	if err != nil {
		return 0, fmt.Errorf("marshal signals: %w", err)
	}

	query := `
		INSERT INTO scans (
			scanned_at, config, universe_size, analyzed, skipped,
			provider_down, signals, signal_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		result.At, configJSON, result.UniverseSize, result.Analyzed,
		result.Skipped, result.ProviderDown, signalsJSON, len(result.Signals),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save scan: %w", err)
	}

	return id, nil
}

// LatestSignals returns the signal list of the most recent completed scan.
// Provider-down scans are skipped: they carry no market information.
func (r *Repository) LatestSignals(ctx context.Context) ([]contracts.Signal, time.Time, error) {
	query := `
		SELECT scanned_at, signals
		FROM scans
		WHERE provider_down = FALSE
		ORDER BY scanned_at DESC
		LIMIT 1
	`

	var at time.Time
	var signalsJSON []byte
	err := r.pool.QueryRow(ctx, query).Scan(&at, &signalsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, time.Time{}, ErrNoScans
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get latest signals: %w", err)
	}

	var signals []contracts.Signal
	if err := json.Unmarshal(signalsJSON, &signals); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode signals: %w", err)
	}

	return signals, at, nil
}

// RecentScans lists the newest archived scans without their payloads
func (r *Repository) RecentScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, scanned_at, config, universe_size, analyzed, skipped,
		       signal_count, provider_down
		FROM scans
		ORDER BY scanned_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent scans: %w", err)
	}
	defer rows.Close()

	records := make([]ScanRecord, 0, limit)
	for rows.Next() {
		var rec ScanRecord
		var configJSON []byte
		err := rows.Scan(
			&rec.ID, &rec.At, &configJSON, &rec.UniverseSize, &rec.Analyzed,
			&rec.Skipped, &rec.SignalCount, &rec.ProviderDown,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if err := json.Unmarshal(configJSON, &rec.Config); err != nil {
			return nil, fmt.Errorf("decode scan config: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return records, nil
}
