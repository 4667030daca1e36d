package webhook

import "context"

type ReportUpload struct {
	Filename    string
	Body        []byte
	UserID      string
	InterviewID string
}

type Sender interface {
	SendReport(ctx context.Context, upload ReportUpload) error
}
