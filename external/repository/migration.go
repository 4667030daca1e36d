package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`DO $$ BEGIN CREATE TYPE interview_status AS ENUM ('delivered'); EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		candidate_name TEXT NOT NULL,
		persona TEXT NOT NULL,
		language TEXT NOT NULL,
		category TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		ended_at TIMESTAMPTZ NOT NULL,
		status interview_status NOT NULL DEFAULT 'delivered',
		report_filename TEXT NOT NULL,
		analytics TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interviews_user ON interviews (user_id, ended_at DESC)`,
	`CREATE TABLE IF NOT EXISTS interview_messages (
		interview_id UUID NOT NULL REFERENCES interviews(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		from_assistant BOOLEAN NOT NULL,
		content TEXT NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (interview_id, seq)
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
