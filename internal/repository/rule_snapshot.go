package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rideadmin/pricing/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RuleSnapshot is the last payload this tool submitted for a rule
type RuleSnapshot struct {
	RuleID      string            `json:"rule_id"`
	Family      domain.RuleFamily `json:"family"`
	Payload     json.RawMessage   `json:"payload"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

type RuleSnapshotRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveSnapshot(ctx context.Context, snapshot *RuleSnapshot) error
	GetSnapshot(ctx context.Context, family domain.RuleFamily, ruleID string) (*RuleSnapshot, error)
}

type ruleSnapshotRepository struct {
	db *pgxpool.Pool
}

func NewRuleSnapshotRepository(db *pgxpool.Pool) RuleSnapshotRepository {
	return &ruleSnapshotRepository{
		db: db,
	}
}

func (r *ruleSnapshotRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS rule_snapshots (
		rule_id      TEXT NOT NULL,
		family       TEXT NOT NULL,
		data         JSONB NOT NULL,
		submitted_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (family, rule_id)
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create rule_snapshots table: %w", err)
	}
	return nil
}

func (r *ruleSnapshotRepository) SaveSnapshot(ctx context.Context, snapshot *RuleSnapshot) error {
	query := `
	INSERT INTO rule_snapshots (rule_id, family, data, submitted_at) 
	VALUES ($1, $2, $3, $4) 
	ON CONFLICT (family, rule_id) 
	DO UPDATE SET data = $3, submitted_at = $4`
	_, err := r.db.Exec(ctx, query, snapshot.RuleID, snapshot.Family.String(), []byte(snapshot.Payload), snapshot.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to save rule snapshot: %w", err)
	}

	return nil
}

func (r *ruleSnapshotRepository) GetSnapshot(ctx context.Context, family domain.RuleFamily, ruleID string) (*RuleSnapshot, error) {
	query := `
	SELECT rule_id, family, data, submitted_at
	FROM rule_snapshots
	WHERE family = $1 AND rule_id = $2`

	var (
		snapshot RuleSnapshot
		fam      string
		data     []byte
	)
	err := r.db.QueryRow(ctx, query, family.String(), ruleID).Scan(&snapshot.RuleID, &fam, &data, &snapshot.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("snapshot for %s rule %s: %w", family, ruleID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rule snapshot: %w", err)
	}

	snapshot.Family = domain.RuleFamily(fam)
	snapshot.Payload = data
	return &snapshot, nil
}
