package repository

import (
	"context"
	"fmt"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var messageColumns = []string{"interview_id", "seq", "from_assistant", "content", "sent_at"}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ArchiveInterview(ctx context.Context, input repository.ArchiveInterviewInput) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO interviews (id, user_id, candidate_name, persona, language, category, started_at, ended_at, status, report_filename, analytics)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			input.InterviewID, input.UserID, input.CandidateName,
			string(input.Persona), string(input.Language), string(input.Category),
			input.StartedAt(), input.EndedAt, string(repository.InterviewStatusDelivered),
			input.ReportFilename, input.Analytics)
		if err != nil {
			return fmt.Errorf("insert interview: %w", err)
		}
		if len(input.Transcript) == 0 {
			return nil
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"interview_messages"}, messageColumns,
			pgx.CopyFromRows(messageRows(input.InterviewID, input.Transcript)))
		if err != nil {
			return fmt.Errorf("copy interview messages: %w", err)
		}
		if int(n) != len(input.Transcript) {
			return fmt.Errorf("copied %d of %d interview messages", n, len(input.Transcript))
		}
		return nil
	})
}

func messageRows(interviewID string, transcript interview.Transcript) [][]any {
	rows := make([][]any, 0, len(transcript))
	for i, e := range transcript {
		rows = append(rows, []any{interviewID, i, e.FromAssistant, e.Text, e.Timestamp})
	}
	return rows
}
