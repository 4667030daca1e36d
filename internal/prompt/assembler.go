package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/llm"
)

const (
	DefaultTemplateName   = "default.txt"
	AnalyticsTemplateName = "analytics.txt"

	historyHeader = "\n\nИстория диалога (раннее заданные вопросы не должны повторяться):"
	latestHeader  = "\nСообщение от студента: "
	openingFormat = "Начало собеседования с %s"

	builtinDefaultTemplate = `Ты - нейро-рекрутер. Проводи собеседование с кандидатом по одному вопросу за раз.
Не повторяй уже заданные вопросы. Служебные пометки для отчета заключай в фигурные скобки {}.`
)

var ErrTemplateNotFound = errors.New("prompt template not found")

type TemplateStore interface {
	// Load returns ErrTemplateNotFound (possibly wrapped) when the template does not exist.
	Load(ctx context.Context, name string) (string, error)
}

type Template struct {
	Name     string
	Text     string
	Fallback bool
}

type Input struct {
	Persona      interview.Persona
	Language     interview.Language
	Category     interview.Category
	Name         string
	SystemPrompt string
	Prior        interview.Transcript
	Latest       string
}

type Assembler struct {
	store   TemplateStore
	catalog *Catalog
}

func NewAssembler(store TemplateStore, catalog *Catalog) *Assembler {
	return &Assembler{store: store, catalog: catalog}
}

func OpeningMessage(name string) string {
	return fmt.Sprintf(openingFormat, name)
}

// Build returns the system/user message pair. History is never truncated.
func (a *Assembler) Build(in Input) ([]llm.Message, error) {
	instruction, err := a.catalog.Instruction(in.Persona, in.Language, in.Name, in.Category)
	if err != nil {
		return nil, err
	}
	var user strings.Builder
	user.WriteString(instruction)
	user.WriteString(historyHeader)
	user.WriteString(strings.Join(in.Prior.Texts(), " "))
	user.WriteString(latestHeader)
	user.WriteString(in.Latest)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: in.SystemPrompt},
		{Role: llm.RoleUser, Content: user.String()},
	}, nil
}

func templateCandidates(persona interview.Persona, category interview.Category) []string {
	return []string{
		fmt.Sprintf("%s_%s.txt", persona, category),
		fmt.Sprintf("%s.txt", category),
	}
}

// ResolveTemplate never fails: missing templates fall back to the default template and,
// failing that, to the built-in one.
func (a *Assembler) ResolveTemplate(ctx context.Context, persona interview.Persona, category interview.Category) Template {
	for _, name := range templateCandidates(persona, category) {
		text, err := a.store.Load(ctx, name)
		if err == nil {
			return Template{Name: name, Text: text}
		}
		if !errors.Is(err, ErrTemplateNotFound) {
			slog.Error("failed to load prompt template", "error", err, "template", name)
			break
		}
	}
	slog.Warn("prompt template missing; using default", "persona", persona, "category", category, "default", DefaultTemplateName)
	text, err := a.store.Load(ctx, DefaultTemplateName)
	if err == nil {
		return Template{Name: DefaultTemplateName, Text: text, Fallback: true}
	}
	slog.Error("default prompt template unavailable; using built-in", "error", err)
	return Template{Name: "builtin", Text: builtinDefaultTemplate, Fallback: true}
}

func (a *Assembler) AnalyticsTemplate(ctx context.Context) (Template, error) {
	text, err := a.store.Load(ctx, AnalyticsTemplateName)
	if err != nil {
		return Template{}, fmt.Errorf("load analytics template: %w", err)
	}
	return Template{Name: AnalyticsTemplateName, Text: text}, nil
}
