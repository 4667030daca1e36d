package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/mensetsu/internal/webhook"
)

func TestSendReport_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendReport(context.Background(), webhook.ReportUpload{Filename: "a.docx", Body: []byte("hello")}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendReport_Success(t *testing.T) {
	var gotFilename string
	var gotBody string
	var gotUserID string
	var gotInterviewID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		mediaType := r.Header.Get("Content-Type")
		if !strings.HasPrefix(mediaType, "multipart/form-data") {
			t.Errorf("unexpected content type: %s", mediaType)
		}

		reader, err := r.MultipartReader()
		if err != nil {
			t.Errorf("failed to create multipart reader: %v", err)
			return
		}
		part, err := reader.NextPart()
		if err != nil {
			t.Errorf("failed to read multipart part: %v", err)
			return
		}
		if part.FormName() != "file" {
			t.Errorf("unexpected form name: %s", part.FormName())
		}
		gotFilename = part.FileName()
		content, err := io.ReadAll(part)
		if err != nil {
			t.Errorf("failed to read file body: %v", err)
		}
		gotBody = string(content)
		for {
			p, err := reader.NextPart()
			if err != nil {
				break
			}
			v, _ := io.ReadAll(p)
			switch p.FormName() {
			case "user_id":
				gotUserID = string(v)
			case "interview_id":
				gotInterviewID = string(v)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	err := sender.SendReport(context.Background(), webhook.ReportUpload{
		Filename:    "interview_report_1.docx",
		Body:        []byte("docx bytes"),
		UserID:      "1",
		InterviewID: "abc",
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if gotFilename != "interview_report_1.docx" {
		t.Fatalf("unexpected filename: %s", gotFilename)
	}
	if gotBody != "docx bytes" {
		t.Fatalf("unexpected body: %s", gotBody)
	}
	if gotUserID != "1" || gotInterviewID != "abc" {
		t.Fatalf("unexpected fields: user_id=%q interview_id=%q", gotUserID, gotInterviewID)
	}
}

func TestSendReport_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendReport(context.Background(), webhook.ReportUpload{Filename: "r.docx", Body: []byte("x")}); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
