// Package gateway issues interview turns and analytics requests to the configured
// language model. Every request is a single attempt bounded by a timeout.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/llm"
	"github.com/foxseedlab/mensetsu/internal/metrics"
	"github.com/foxseedlab/mensetsu/internal/prompt"
)

const (
	turnTemperature      = 0.7
	turnMaxTokens        = 2000
	analyticsTemperature = 0.3
	analyticsMaxTokens   = 3000

	analyticsRequestPrefix = "Проанализируй следующий диалог и создай отчет:\n\n"

	TurnFallbackText      = "Извините, произошла ошибка при обработке вашего сообщения. Попробуйте еще раз."
	AnalyticsFallbackText = "Не удалось сгенерировать аналитический отчет."
)

var (
	ErrGateway    = errors.New("language model request failed")
	errEmptyReply = errors.New("empty reply")
)

type TurnResult struct {
	Reply string
	Err   error
}

func (r TurnResult) Text() string {
	if r.Err != nil {
		return TurnFallbackText
	}
	return r.Reply
}

type AnalyticsResult struct {
	Report string
	Err    error
}

func (r AnalyticsResult) Text() string {
	if r.Err != nil {
		return AnalyticsFallbackText
	}
	return r.Report
}

type Gateway struct {
	completer llm.Completer
	assembler *prompt.Assembler
	tokens    llm.TokenCounter
	recorder  *metrics.Recorder
	timeout   time.Duration
}

func NewGateway(completer llm.Completer, assembler *prompt.Assembler, tokens llm.TokenCounter, recorder *metrics.Recorder, timeout time.Duration) *Gateway {
	return &Gateway{
		completer: completer,
		assembler: assembler,
		tokens:    tokens,
		recorder:  recorder,
		timeout:   timeout,
	}
}

// TurnResponse asks the model for the next interviewer message. in.Prior must not
// contain the message passed as in.Latest.
func (g *Gateway) TurnResponse(ctx context.Context, in prompt.Input) TurnResult {
	messages, err := g.assembler.Build(in)
	if err != nil {
		g.recorder.ObserveTurn(false)
		return TurnResult{Err: fmt.Errorf("%w: build prompt: %w", ErrGateway, err)}
	}
	reply, err := g.complete(ctx, metrics.OperationTurn, llm.Request{
		Messages:    messages,
		MaxTokens:   turnMaxTokens,
		Temperature: turnTemperature,
	})
	g.recorder.ObserveTurn(err == nil)
	if err != nil {
		return TurnResult{Err: err}
	}
	return TurnResult{Reply: reply}
}

func (g *Gateway) AnalyticsReport(ctx context.Context, transcript interview.Transcript) AnalyticsResult {
	tmpl, err := g.assembler.AnalyticsTemplate(ctx)
	if err != nil {
		return AnalyticsResult{Err: fmt.Errorf("%w: %w", ErrGateway, err)}
	}
	report, err := g.complete(ctx, metrics.OperationAnalytics, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: tmpl.Text},
			{Role: llm.RoleUser, Content: analyticsRequestPrefix + transcript.Serialize()},
		},
		MaxTokens:   analyticsMaxTokens,
		Temperature: analyticsTemperature,
	})
	if err != nil {
		return AnalyticsResult{Err: err}
	}
	return AnalyticsResult{Report: report}
}

func (g *Gateway) complete(ctx context.Context, operation string, req llm.Request) (string, error) {
	promptTokens := 0
	for _, m := range req.Messages {
		promptTokens += g.tokens.CountTokens(m.Content)
	}
	g.recorder.ObservePromptTokens(operation, promptTokens)
	slog.Debug("sending language model request",
		"operation", operation,
		"provider", g.completer.Provider(),
		"model", g.completer.Model(),
		"prompt_tokens", promptTokens)

	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	reply, err := g.completer.Complete(reqCtx, req)
	elapsed := time.Since(started)
	if err == nil {
		reply = strings.TrimSpace(reply)
		if reply == "" {
			err = errEmptyReply
		}
	}
	g.recorder.ObserveRequest(operation, g.completer.Provider(), err == nil, elapsed)
	if err != nil {
		slog.Error("language model request failed",
			"error", err,
			"operation", operation,
			"provider", g.completer.Provider(),
			"elapsed", elapsed)
		return "", fmt.Errorf("%w: %s: %w", ErrGateway, operation, err)
	}
	slog.Info("language model request completed",
		"operation", operation,
		"provider", g.completer.Provider(),
		"prompt_tokens", promptTokens,
		"reply_chars", len([]rune(reply)),
		"elapsed", elapsed)
	return reply, nil
}
