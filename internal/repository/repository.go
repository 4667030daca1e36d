package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
)

type ArchiveInterviewInput struct {
	InterviewID    string
	UserID         string
	CandidateName  string
	Persona        interview.Persona
	Language       interview.Language
	Category       interview.Category
	EndedAt        time.Time
	ReportFilename string
	Analytics      string
	Transcript     interview.Transcript
}

// StartedAt is the first transcript timestamp, or EndedAt for an empty transcript.
func (in ArchiveInterviewInput) StartedAt() time.Time {
	if len(in.Transcript) == 0 {
		return in.EndedAt
	}
	return in.Transcript[0].Timestamp
}

// Repository archives delivered interviews. It is write-only: live conversation
// state is never loaded from it.
type Repository interface {
	ArchiveInterview(ctx context.Context, input ArchiveInterviewInput) error
}
