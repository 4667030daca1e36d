package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/prompt"
)

type conversationSnapshot struct {
	userID     string
	state      State
	transcript interview.Transcript
	machine    string
}

func snapshot(c *Conversation) conversationSnapshot {
	return conversationSnapshot{
		userID:     c.userID,
		state:      c.state,
		transcript: c.transcript,
		machine:    c.machine.Current(),
	}
}

func assertPhase(t *testing.T, c *Conversation, want Phase) {
	t.Helper()
	if got := c.State().Phase(); got != want {
		t.Fatalf("expected phase %s, got %s", want, got)
	}
	if got := c.machine.Current(); got != string(want) {
		t.Fatalf("transition table out of sync: state %s, machine %s", want, got)
	}
}

func driveToActive(t *testing.T, c *Conversation) {
	t.Helper()
	ctx := context.Background()
	steps := []func() error{
		func() error { return c.Start(ctx) },
		func() error { return c.ChoosePersona(ctx, interview.PersonaHope) },
		func() error { return c.ChooseLanguage(ctx, interview.LanguageRussian) },
		func() error {
			return c.ChooseCategory(ctx, interview.CategorySoft, prompt.Template{Name: "soft.txt", Text: "SOFT"})
		},
		func() error { return c.SubmitName(ctx, "Анна") },
		func() error { return c.Activate(ctx, "iv-1") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
}

func TestConversation_HopeFlow(t *testing.T) {
	ctx := context.Background()
	c := newConversation("u1")
	assertPhase(t, c, PhaseFresh)

	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	assertPhase(t, c, PhaseChoosingMode)
	if err := c.ChoosePersona(ctx, interview.PersonaHope); err != nil {
		t.Fatalf("choose persona: %v", err)
	}
	assertPhase(t, c, PhaseChoosingLanguage)
	if err := c.ChooseLanguage(ctx, interview.LanguageEnglish); err != nil {
		t.Fatalf("choose language: %v", err)
	}
	assertPhase(t, c, PhaseChoosingCategory)
	if err := c.ChooseCategory(ctx, interview.CategoryHard, prompt.Template{Name: "hard.txt", Text: "HARD"}); err != nil {
		t.Fatalf("choose category: %v", err)
	}
	assertPhase(t, c, PhaseAwaitingName)
	if err := c.SubmitName(ctx, "Kim"); err != nil {
		t.Fatalf("submit name: %v", err)
	}
	assertPhase(t, c, PhaseReady)

	setup, ok := c.Setup()
	if !ok {
		t.Fatal("expected setup to be complete")
	}
	want := Setup{Persona: interview.PersonaHope, Language: interview.LanguageEnglish, Category: interview.CategoryHard, Name: "Kim", SystemPrompt: "HARD"}
	if setup != want {
		t.Fatalf("unexpected setup: %+v", setup)
	}
	if c.IsActive() {
		t.Fatal("ready conversation must not be active")
	}
	if err := c.Activate(ctx, "iv-9"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	assertPhase(t, c, PhaseActive)
	if c.InterviewID() != "iv-9" {
		t.Fatalf("unexpected interview id: %q", c.InterviewID())
	}
}

func TestConversation_TeacherSkipsLanguage(t *testing.T) {
	ctx := context.Background()
	c := newConversation("u1")
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := c.ChoosePersona(ctx, interview.PersonaTeacher); err != nil {
		t.Fatalf("choose persona: %v", err)
	}
	assertPhase(t, c, PhaseChoosingCategory)
	s := c.State().(ChoosingCategory)
	if s.Language != interview.LanguageEnglish {
		t.Fatalf("teacher must fix english, got %q", s.Language)
	}
}

func TestConversation_IllegalTransitionsLeaveStateUnchanged(t *testing.T) {
	ctx := context.Background()
	c := newConversation("u1")
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	tests := []struct {
		name string
		call func() error
	}{
		{"language before persona", func() error { return c.ChooseLanguage(ctx, interview.LanguageRussian) }},
		{"category before persona", func() error { return c.ChooseCategory(ctx, interview.CategorySoft, prompt.Template{}) }},
		{"name before category", func() error { return c.SubmitName(ctx, "x") }},
		{"terminate before active", func() error { return c.Terminate(ctx) }},
		{"second start", func() error { return c.Start(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, ErrIllegalTransition) {
				t.Fatalf("expected ErrIllegalTransition, got %v", err)
			}
			assertPhase(t, c, PhaseChoosingMode)
		})
	}
}

func TestConversation_TerminateAndAbort(t *testing.T) {
	ctx := context.Background()
	c := newConversation("u1")
	driveToActive(t, c)

	if err := c.Terminate(ctx); err != nil {
		t.Fatalf("terminate: %v", err)
	}
	assertPhase(t, c, PhaseTerminating)
	if !c.IsActive() || c.InterviewID() != "iv-1" {
		t.Fatalf("terminating interview keeps its identity: active=%v id=%q", c.IsActive(), c.InterviewID())
	}
	if err := c.AbortTermination(ctx); err != nil {
		t.Fatalf("abort termination: %v", err)
	}
	assertPhase(t, c, PhaseActive)
	if c.InterviewID() != "iv-1" {
		t.Fatalf("unexpected interview id: %q", c.InterviewID())
	}
}

func TestConversation_ResetEqualsFresh(t *testing.T) {
	c := newConversation("u1")
	driveToActive(t, c)
	c.appendEntry("Вопрос", true, time.Now())
	c.appendEntry("Ответ", false, time.Now())

	c.Reset()
	if !reflect.DeepEqual(snapshot(c), snapshot(newConversation("u1"))) {
		t.Fatalf("reset conversation differs from fresh: %+v", snapshot(c))
	}
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start after reset: %v", err)
	}
}

func TestConversation_TranscriptIsCopied(t *testing.T) {
	c := newConversation("u1")
	c.appendEntry("one", true, time.Now())
	got := c.Transcript()
	got[0].Text = "changed"
	_ = got.Append("extra", false, time.Now())
	if c.transcript[0].Text != "one" || len(c.transcript) != 1 {
		t.Fatalf("transcript mutated through copy: %+v", c.transcript)
	}
}
