package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/looplab/fsm"
)

type Phase string

const (
	PhaseFresh            Phase = "fresh"
	PhaseChoosingMode     Phase = "choosing_mode"
	PhaseChoosingLanguage Phase = "choosing_language"
	PhaseChoosingCategory Phase = "choosing_category"
	PhaseAwaitingName     Phase = "awaiting_name"
	PhaseReady            Phase = "ready"
	PhaseActive           Phase = "active"
	PhaseTerminating      Phase = "terminating"
)

const (
	eventStart            = "start"
	eventChooseHope       = "choose_persona_hope"
	eventChooseTeacher    = "choose_persona_teacher"
	eventChooseLanguage   = "choose_language"
	eventChooseCategory   = "choose_category"
	eventSubmitName       = "submit_name"
	eventActivate         = "activate"
	eventTerminate        = "terminate"
	eventAbortTermination = "abort_termination"
)

var ErrIllegalTransition = errors.New("illegal session transition")

var transitions = fsm.Events{
	{Name: eventStart, Src: []string{string(PhaseFresh)}, Dst: string(PhaseChoosingMode)},
	{Name: eventChooseHope, Src: []string{string(PhaseChoosingMode)}, Dst: string(PhaseChoosingLanguage)},
	{Name: eventChooseTeacher, Src: []string{string(PhaseChoosingMode)}, Dst: string(PhaseChoosingCategory)},
	{Name: eventChooseLanguage, Src: []string{string(PhaseChoosingLanguage)}, Dst: string(PhaseChoosingCategory)},
	{Name: eventChooseCategory, Src: []string{string(PhaseChoosingCategory)}, Dst: string(PhaseAwaitingName)},
	{Name: eventSubmitName, Src: []string{string(PhaseAwaitingName)}, Dst: string(PhaseReady)},
	{Name: eventActivate, Src: []string{string(PhaseReady)}, Dst: string(PhaseActive)},
	{Name: eventTerminate, Src: []string{string(PhaseActive)}, Dst: string(PhaseTerminating)},
	{Name: eventAbortTermination, Src: []string{string(PhaseTerminating)}, Dst: string(PhaseActive)},
}

func newMachine() *fsm.FSM {
	return fsm.NewFSM(string(PhaseFresh), transitions, fsm.Callbacks{})
}

// Setup is everything chosen before the interview starts. It does not change afterwards.
type Setup struct {
	Persona      interview.Persona
	Language     interview.Language
	Category     interview.Category
	Name         string
	SystemPrompt string
}

// State is one of the phase types below; each carries only the fields valid in its phase.
type State interface {
	Phase() Phase
}

type Fresh struct{}

type ChoosingMode struct{}

type ChoosingLanguage struct {
	Persona interview.Persona
}

type ChoosingCategory struct {
	Persona  interview.Persona
	Language interview.Language
}

type AwaitingName struct {
	Persona  interview.Persona
	Language interview.Language
	Category interview.Category
	Template prompt.Template
}

type Ready struct {
	Setup Setup
}

type Active struct {
	Setup       Setup
	InterviewID string
}

type Terminating struct {
	Setup       Setup
	InterviewID string
}

func (Fresh) Phase() Phase            { return PhaseFresh }
func (ChoosingMode) Phase() Phase     { return PhaseChoosingMode }
func (ChoosingLanguage) Phase() Phase { return PhaseChoosingLanguage }
func (ChoosingCategory) Phase() Phase { return PhaseChoosingCategory }
func (AwaitingName) Phase() Phase     { return PhaseAwaitingName }
func (Ready) Phase() Phase            { return PhaseReady }
func (Active) Phase() Phase           { return PhaseActive }
func (Terminating) Phase() Phase      { return PhaseTerminating }

// Conversation is one user's interview. Callers must hold the lock handed out by Store.Acquire.
type Conversation struct {
	userID     string
	state      State
	transcript interview.Transcript
	machine    *fsm.FSM
}

func newConversation(userID string) *Conversation {
	return &Conversation{
		userID:  userID,
		state:   Fresh{},
		machine: newMachine(),
	}
}

func (c *Conversation) UserID() string {
	return c.userID
}

func (c *Conversation) State() State {
	return c.state
}

// Transcript returns a copy; appending to it does not affect the conversation.
func (c *Conversation) Transcript() interview.Transcript {
	return c.transcript.Clone()
}

func (c *Conversation) IsSetupComplete() bool {
	switch c.state.(type) {
	case Ready, Active, Terminating:
		return true
	default:
		return false
	}
}

func (c *Conversation) IsActive() bool {
	switch c.state.(type) {
	case Active, Terminating:
		return true
	default:
		return false
	}
}

// Setup returns the completed setup, if any.
func (c *Conversation) Setup() (Setup, bool) {
	switch s := c.state.(type) {
	case Ready:
		return s.Setup, true
	case Active:
		return s.Setup, true
	case Terminating:
		return s.Setup, true
	default:
		return Setup{}, false
	}
}

// InterviewID is set once the interview is active.
func (c *Conversation) InterviewID() string {
	switch s := c.state.(type) {
	case Active:
		return s.InterviewID
	case Terminating:
		return s.InterviewID
	default:
		return ""
	}
}

// Reset returns the conversation to the state of a newly created one.
func (c *Conversation) Reset() {
	c.state = Fresh{}
	c.transcript = nil
	c.machine = newMachine()
}

func (c *Conversation) appendEntry(text string, fromAssistant bool, at time.Time) {
	c.transcript = c.transcript.Append(text, fromAssistant, at)
}

func (c *Conversation) fire(ctx context.Context, event string, next State) error {
	if err := c.machine.Event(ctx, event); err != nil {
		return fmt.Errorf("%w: %s from %s: %w", ErrIllegalTransition, event, c.state.Phase(), err)
	}
	c.state = next
	return nil
}

func (c *Conversation) Start(ctx context.Context) error {
	return c.fire(ctx, eventStart, ChoosingMode{})
}

// ChoosePersona moves to language selection, or straight to category selection for
// personas with a fixed language.
func (c *Conversation) ChoosePersona(ctx context.Context, persona interview.Persona) error {
	if lang, fixed := persona.FixedLanguage(); fixed {
		return c.fire(ctx, eventChooseTeacher, ChoosingCategory{Persona: persona, Language: lang})
	}
	return c.fire(ctx, eventChooseHope, ChoosingLanguage{Persona: persona})
}

func (c *Conversation) ChooseLanguage(ctx context.Context, language interview.Language) error {
	s, ok := c.state.(ChoosingLanguage)
	if !ok {
		return fmt.Errorf("%w: choose language from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventChooseLanguage, ChoosingCategory{Persona: s.Persona, Language: language})
}

func (c *Conversation) ChooseCategory(ctx context.Context, category interview.Category, tmpl prompt.Template) error {
	s, ok := c.state.(ChoosingCategory)
	if !ok {
		return fmt.Errorf("%w: choose category from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventChooseCategory, AwaitingName{
		Persona:  s.Persona,
		Language: s.Language,
		Category: category,
		Template: tmpl,
	})
}

func (c *Conversation) SubmitName(ctx context.Context, name string) error {
	s, ok := c.state.(AwaitingName)
	if !ok {
		return fmt.Errorf("%w: submit name from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventSubmitName, Ready{Setup: Setup{
		Persona:      s.Persona,
		Language:     s.Language,
		Category:     s.Category,
		Name:         name,
		SystemPrompt: s.Template.Text,
	}})
}

func (c *Conversation) Activate(ctx context.Context, interviewID string) error {
	s, ok := c.state.(Ready)
	if !ok {
		return fmt.Errorf("%w: activate from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventActivate, Active{Setup: s.Setup, InterviewID: interviewID})
}

func (c *Conversation) Terminate(ctx context.Context) error {
	s, ok := c.state.(Active)
	if !ok {
		return fmt.Errorf("%w: terminate from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventTerminate, Terminating(s))
}

func (c *Conversation) AbortTermination(ctx context.Context) error {
	s, ok := c.state.(Terminating)
	if !ok {
		return fmt.Errorf("%w: abort termination from %s", ErrIllegalTransition, c.state.Phase())
	}
	return c.fire(ctx, eventAbortTermination, Active(s))
}
