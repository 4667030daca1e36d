package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/foxseedlab/mensetsu/internal/config"
	"github.com/foxseedlab/mensetsu/internal/discord"
	"github.com/foxseedlab/mensetsu/internal/gateway"
	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/metrics"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/foxseedlab/mensetsu/internal/repository"
	"github.com/foxseedlab/mensetsu/internal/webhook"
	"github.com/google/uuid"
)

const (
	reportAttachmentFormat = "interview_report_%s.docx"
	deliveryTimeout        = time.Minute
)

type Gateway interface {
	TurnResponse(ctx context.Context, in prompt.Input) gateway.TurnResult
	AnalyticsReport(ctx context.Context, transcript interview.Transcript) gateway.AnalyticsResult
}

type TemplateResolver interface {
	ResolveTemplate(ctx context.Context, persona interview.Persona, category interview.Category) prompt.Template
}

type ReportGenerator interface {
	Generate(ctx context.Context, req report.Request) (string, error)
}

type Manager struct {
	cfg       *config.Config
	store     *Store
	discord   discord.Client
	gateway   Gateway
	templates TemplateResolver
	reports   ReportGenerator
	repo      repository.Repository
	webhook   webhook.Sender
	recorder  *metrics.Recorder

	now       func() time.Time
	newID     func() string
	botUserID atomic.Value
}

func NewManager(
	cfg *config.Config,
	store *Store,
	dc discord.Client,
	gw Gateway,
	templates TemplateResolver,
	reports ReportGenerator,
	repo repository.Repository,
	wh webhook.Sender,
	recorder *metrics.Recorder,
) *Manager {
	return &Manager{
		cfg:       cfg,
		store:     store,
		discord:   dc,
		gateway:   gw,
		templates: templates,
		reports:   reports,
		repo:      repo,
		webhook:   wh,
		recorder:  recorder,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (m *Manager) SetBotUserID(userID string) {
	m.botUserID.Store(userID)
}

func (m *Manager) isBot(userID string) bool {
	id, _ := m.botUserID.Load().(string)
	return id != "" && id == userID
}

// accepts reports whether the bot converses in this channel: direct messages always,
// guild channels only when it is the configured interview channel.
func (m *Manager) accepts(guildID, channelID string) bool {
	if guildID == "" {
		return true
	}
	return m.cfg.DiscordInterviewChannelID != "" && channelID == m.cfg.DiscordInterviewChannelID
}

func (m *Manager) HandleSlashCommand(event discord.SlashCommandEvent) {
	slog.Info("slash command received", "command", event.CommandName, "user_id", event.UserID, "channel_id", event.ChannelID)
	if !m.accepts(event.GuildID, event.ChannelID) {
		m.respond(event, discord.Reply{Content: messageWrongChannel})
		return
	}
	switch event.CommandName {
	case SlashCommandStart:
		m.handleStart(event)
	case SlashCommandStop:
		m.handleStop(event)
	case SlashCommandHelp:
		m.respond(event, discord.Reply{Content: messageHelp})
	default:
		slog.Warn("unknown slash command", "command", event.CommandName, "user_id", event.UserID)
		m.respond(event, discord.Reply{Content: messageUnknownCommand})
	}
}

func (m *Manager) respond(event discord.SlashCommandEvent, reply discord.Reply) {
	if err := event.Respond(reply); err != nil {
		slog.Error("failed to respond to slash command", "error", err, "command", event.CommandName, "user_id", event.UserID)
	}
}

// deferReply acknowledges a command before it waits on the conversation lock.
func (m *Manager) deferReply(event discord.SlashCommandEvent) {
	if event.Defer == nil {
		return
	}
	if err := event.Defer(); err != nil {
		slog.Error("failed to defer slash command", "error", err, "command", event.CommandName, "user_id", event.UserID)
	}
}

func (m *Manager) handleStart(event discord.SlashCommandEvent) {
	ctx := context.Background()
	m.deferReply(event)
	conv, release := m.store.Acquire(event.UserID)
	defer release()

	if conv.IsSetupComplete() {
		m.respond(event, discord.Reply{Content: messageThinking})
		m.openingTurn(ctx, conv, event.ChannelID)
		return
	}
	conv.Reset()
	if err := conv.Start(ctx); err != nil {
		slog.Error("failed to start setup", "error", err, "user_id", event.UserID)
		m.respond(event, discord.Reply{Content: messageInitFailed})
		return
	}
	slog.Info("interview setup started", "user_id", event.UserID)
	m.respond(event, discord.Reply{Content: messageWelcome, Buttons: modeKeyboard})
}

func (m *Manager) handleStop(event discord.SlashCommandEvent) {
	ctx := context.Background()
	m.deferReply(event)
	conv, release := m.store.Acquire(event.UserID)
	defer release()

	if !conv.IsActive() {
		m.respond(event, discord.Reply{Content: messageNotActive})
		return
	}
	m.respond(event, discord.Reply{Content: messageFinishing})
	m.terminate(ctx, conv, event.ChannelID)
}

func (m *Manager) HandleButton(event discord.ButtonEvent) {
	ctx := context.Background()
	conv, release := m.store.Acquire(event.UserID)
	defer release()

	reply, err := m.applySelection(ctx, conv, event.CustomID)
	if err != nil {
		slog.Warn("button press rejected", "error", err, "custom_id", event.CustomID, "user_id", event.UserID, "phase", conv.State().Phase())
		if err := event.Notify(messageSelectionStale); err != nil {
			slog.Error("failed to notify stale selection", "error", err, "user_id", event.UserID)
		}
		return
	}
	slog.Info("setup selection applied", "custom_id", event.CustomID, "user_id", event.UserID, "phase", conv.State().Phase())
	if err := event.Update(reply); err != nil {
		slog.Error("failed to update selection message", "error", err, "user_id", event.UserID)
	}
}

var errUnknownButton = errors.New("unknown button")

func (m *Manager) applySelection(ctx context.Context, conv *Conversation, customID string) (discord.Reply, error) {
	if persona, ok := buttonPersonas[customID]; ok {
		if err := conv.ChoosePersona(ctx, persona); err != nil {
			return discord.Reply{}, err
		}
		if persona == interview.PersonaTeacher {
			return discord.Reply{Content: messageTeacherSelected, Buttons: categoryKeyboard}, nil
		}
		return discord.Reply{Content: messageHopeSelected, Buttons: languageKeyboard}, nil
	}
	if language, ok := buttonLanguages[customID]; ok {
		if err := conv.ChooseLanguage(ctx, language); err != nil {
			return discord.Reply{}, err
		}
		if language == interview.LanguageEnglish {
			return discord.Reply{Content: messageEnglishSelected, Buttons: categoryKeyboard}, nil
		}
		return discord.Reply{Content: messageRussianSelected, Buttons: categoryKeyboard}, nil
	}
	if category, ok := buttonCategories[customID]; ok {
		s, ok := conv.State().(ChoosingCategory)
		if !ok {
			return discord.Reply{}, fmt.Errorf("%w: choose category from %s", ErrIllegalTransition, conv.State().Phase())
		}
		tmpl := m.templates.ResolveTemplate(ctx, s.Persona, category)
		if err := conv.ChooseCategory(ctx, category, tmpl); err != nil {
			return discord.Reply{}, err
		}
		return discord.Reply{Content: categorySelectedMessage(category)}, nil
	}
	return discord.Reply{}, fmt.Errorf("%w: %s", errUnknownButton, customID)
}

func (m *Manager) HandleMessage(event discord.MessageEvent) {
	if m.isBot(event.UserID) {
		return
	}
	if !m.accepts(event.GuildID, event.ChannelID) {
		return
	}
	text := strings.TrimSpace(event.Content)
	if text == "" {
		return
	}
	ctx := context.Background()
	conv, release := m.store.Acquire(event.UserID)
	defer release()

	switch conv.State().(type) {
	case Fresh:
		m.send(event.ChannelID, messageStartFirst)
	case ChoosingMode, ChoosingLanguage, ChoosingCategory:
		m.send(event.ChannelID, messageFinishSetup)
	case AwaitingName:
		if err := conv.SubmitName(ctx, text); err != nil {
			slog.Error("failed to accept candidate name", "error", err, "user_id", event.UserID)
			return
		}
		slog.Info("candidate name accepted", "user_id", event.UserID)
		m.openingTurn(ctx, conv, event.ChannelID)
	case Ready:
		m.openingTurn(ctx, conv, event.ChannelID)
	case Active:
		if interview.IsStopKeyword(event.Content) {
			m.terminate(ctx, conv, event.ChannelID)
			return
		}
		m.turn(ctx, conv, event.ChannelID, event.Content)
	default:
		m.send(event.ChannelID, messageNotActive)
	}
}

func (m *Manager) send(channelID, content string) {
	if err := m.discord.SendMessage(channelID, content); err != nil {
		slog.Error("failed to send message", "error", err, "channel_id", channelID)
	}
}

func (m *Manager) typing(channelID string) {
	if err := m.discord.SendTyping(channelID); err != nil {
		slog.Debug("failed to send typing indicator", "error", err, "channel_id", channelID)
	}
}

// relay sends the display form of an assistant reply; nothing is sent when filtering
// leaves no text.
func (m *Manager) relay(channelID, reply string) {
	filtered := interview.FilterForDisplay(reply)
	if filtered == "" {
		slog.Debug("filtered reply is empty; nothing sent", "channel_id", channelID)
		return
	}
	m.send(channelID, filtered)
}

func turnInput(setup Setup, prior interview.Transcript, latest string) prompt.Input {
	return prompt.Input{
		Persona:      setup.Persona,
		Language:     setup.Language,
		Category:     setup.Category,
		Name:         setup.Name,
		SystemPrompt: setup.SystemPrompt,
		Prior:        prior,
		Latest:       latest,
	}
}

// openingTurn asks for the interviewer's first message. It activates a Ready
// conversation on success and leaves it Ready on failure.
func (m *Manager) openingTurn(ctx context.Context, conv *Conversation, channelID string) {
	setup, ok := conv.Setup()
	if !ok {
		return
	}
	m.typing(channelID)
	result := m.gateway.TurnResponse(ctx, turnInput(setup, nil, prompt.OpeningMessage(setup.Name)))
	if result.Err != nil {
		slog.Error("opening turn failed", "error", result.Err, "user_id", conv.UserID(), "phase", conv.State().Phase())
		if _, ready := conv.State().(Ready); ready {
			m.send(channelID, messageInitFailed)
			return
		}
		m.send(channelID, result.Text())
		return
	}
	conv.appendEntry(result.Reply, true, m.now())
	if _, ready := conv.State().(Ready); ready {
		if err := conv.Activate(ctx, m.newID()); err != nil {
			slog.Error("failed to activate interview", "error", err, "user_id", conv.UserID())
			return
		}
		slog.Info("interview started", "user_id", conv.UserID(), "interview_id", conv.InterviewID(),
			"persona", setup.Persona, "language", setup.Language, "category", setup.Category)
	}
	m.relay(channelID, result.Reply)
}

// turn records the candidate message and relays the interviewer's answer. On failure
// the candidate entry stays last and only the apology is sent.
func (m *Manager) turn(ctx context.Context, conv *Conversation, channelID, text string) {
	setup, _ := conv.Setup()
	prior := conv.Transcript()
	conv.appendEntry(text, false, m.now())

	m.typing(channelID)
	result := m.gateway.TurnResponse(ctx, turnInput(setup, prior, text))
	if result.Err != nil {
		slog.Error("interview turn failed", "error", result.Err, "user_id", conv.UserID(), "interview_id", conv.InterviewID())
		m.send(channelID, result.Text())
		return
	}
	conv.appendEntry(result.Reply, true, m.now())
	m.relay(channelID, result.Reply)
}

// terminate delivers the report and resets the conversation. When the report cannot be
// produced or delivered the interview goes back to Active so the user can retry.
func (m *Manager) terminate(ctx context.Context, conv *Conversation, channelID string) {
	userID := conv.UserID()
	interviewID := conv.InterviewID()
	if err := conv.Terminate(ctx); err != nil {
		slog.Error("failed to terminate interview", "error", err, "user_id", userID)
		return
	}
	slog.Info("terminating interview", "user_id", userID, "interview_id", interviewID, "entries", len(conv.transcript))
	m.send(channelID, messageGeneratingReport)
	m.typing(channelID)

	setup, _ := conv.Setup()
	transcript := conv.Transcript()
	analytics := m.gateway.AnalyticsReport(ctx, transcript)
	if analytics.Err != nil {
		slog.Warn("analytics unavailable; report uses fallback text", "error", analytics.Err, "user_id", userID, "interview_id", interviewID)
	}
	endedAt := m.now()

	path, err := m.reports.Generate(ctx, report.Request{
		UserID:     userID,
		Transcript: transcript,
		Analytics:  analytics.Text(),
		Now:        endedAt,
	})
	if path != "" && !m.cfg.ReportKeepFiles {
		defer m.removeReport(path)
	}
	var body []byte
	if err == nil {
		body, err = m.deliver(channelID, userID, path)
	}
	if err != nil {
		m.recorder.ObserveReport(false)
		slog.Error("failed to deliver interview report", "error", err, "user_id", userID, "interview_id", interviewID)
		m.send(channelID, messageReportFailed)
		if err := conv.AbortTermination(ctx); err != nil {
			slog.Error("failed to resume interview", "error", err, "user_id", userID)
		}
		return
	}
	m.recorder.ObserveReport(true)

	deliveryCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()
	m.archive(deliveryCtx, repository.ArchiveInterviewInput{
		InterviewID:    interviewID,
		UserID:         userID,
		CandidateName:  setup.Name,
		Persona:        setup.Persona,
		Language:       setup.Language,
		Category:       setup.Category,
		EndedAt:        endedAt,
		ReportFilename: filepath.Base(path),
		Analytics:      analytics.Text(),
		Transcript:     transcript,
	})
	if err := m.webhook.SendReport(deliveryCtx, webhook.ReportUpload{
		Filename:    filepath.Base(path),
		Body:        body,
		UserID:      userID,
		InterviewID: interviewID,
	}); err != nil {
		slog.Error("failed to send report webhook", "error", err, "user_id", userID, "interview_id", interviewID)
	}

	conv.Reset()
	slog.Info("interview completed", "user_id", userID, "interview_id", interviewID)
	m.send(channelID, messageInterviewCompleted)
	m.send(channelID, messageStartAgain)
}

func (m *Manager) deliver(channelID, userID, path string) ([]byte, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	if err := m.discord.SendMessageWithFile(discord.FileMessage{
		ChannelID: channelID,
		Content:   messageReportCaption,
		Filename:  fmt.Sprintf(reportAttachmentFormat, userID),
		FileBody:  body,
	}); err != nil {
		return nil, fmt.Errorf("send report: %w", err)
	}
	return body, nil
}

func (m *Manager) archive(ctx context.Context, input repository.ArchiveInterviewInput) {
	if err := m.repo.ArchiveInterview(ctx, input); err != nil {
		slog.Error("failed to archive interview", "error", err, "user_id", input.UserID, "interview_id", input.InterviewID)
	}
}

func (m *Manager) removeReport(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to remove report file", "error", err, "path", path)
	}
}
