// Package record appends completed predictions to Postgres.
package record

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
)

// Schema creates the audit table. Features are stored in canonical column order.
const Schema = `
CREATE TABLE IF NOT EXISTS soil_predictions (
	id          BIGSERIAL PRIMARY KEY,
	session_id  TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	features    DOUBLE PRECISION[] NOT NULL,
	fertile     BOOLEAN NOT NULL,
	score       DOUBLE PRECISION NOT NULL,
	crop        TEXT NOT NULL,
	crop_index  INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertQuery = `
	INSERT INTO soil_predictions (
		session_id, source, features, fertile, score, crop, crop_index, created_at
	) VALUES (
		:session_id, :source, :features, :fertile, :score, :crop, :crop_index, :created_at
	)`

// execer is the consumer interface satisfied by *sqlx.DB (ISP).
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// Repo implements evaluate.Recorder on Postgres.
type Repo struct {
	db execer
}

// New creates a prediction recorder.
func New(db execer) *Repo {
	return &Repo{db: db}
}

// EnsureSchema creates soil_predictions if it does not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create soil_predictions: %w", err)
	}
	return nil
}

// Record inserts one prediction.
func (r *Repo) Record(ctx context.Context, rec prediction.Record) error {
	if _, err := r.db.NamedExecContext(ctx, insertQuery, toRow(rec)); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

// Ping checks that the audit database accepts queries.
func (r *Repo) Ping(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("ping recorder: %w", err)
	}
	return nil
}
