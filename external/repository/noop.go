package repository

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/mensetsu/internal/repository"
)

// NoopRepository is used when DATABASE_URL is empty.
type NoopRepository struct{}

func NewNoopRepository() repository.Repository {
	return NoopRepository{}
}

func (NoopRepository) ArchiveInterview(_ context.Context, input repository.ArchiveInterviewInput) error {
	slog.Debug("interview archive disabled; skipping", "interview_id", input.InterviewID, "user_id", input.UserID)
	return nil
}
