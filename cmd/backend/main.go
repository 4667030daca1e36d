package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/mensetsu/external/config"
	"github.com/foxseedlab/mensetsu/external/discord"
	"github.com/foxseedlab/mensetsu/external/httpserver"
	llmimpl "github.com/foxseedlab/mensetsu/external/llm"
	reportimpl "github.com/foxseedlab/mensetsu/external/report"
	repositoryimpl "github.com/foxseedlab/mensetsu/external/repository"
	"github.com/foxseedlab/mensetsu/external/templates"
	"github.com/foxseedlab/mensetsu/external/tokenizer"
	webhookimpl "github.com/foxseedlab/mensetsu/external/webhook"
	"github.com/foxseedlab/mensetsu/internal/config"
	discordpkg "github.com/foxseedlab/mensetsu/internal/discord"
	"github.com/foxseedlab/mensetsu/internal/gateway"
	"github.com/foxseedlab/mensetsu/internal/metrics"
	"github.com/foxseedlab/mensetsu/internal/prompt"
	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/foxseedlab/mensetsu/internal/session"
	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
)

const (
	discordConnectTimeout = 20 * time.Second
	shutdownTimeout       = 10 * time.Second
	sweepInterval         = 10 * time.Minute
)

func main() {
	if err := godotenv.Load(); err == nil {
		slog.Info("startup: loaded .env")
	}

	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "llm_provider", cfg.LLMProvider, "model", cfg.Model())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching discord bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	metrics.RegisterDI(injector)
	templates.RegisterDI(injector)
	prompt.RegisterDI(injector)
	tokenizer.RegisterDI(injector)
	llmimpl.RegisterDI(injector)
	gateway.RegisterDI(injector)
	reportimpl.RegisterDI(injector)
	report.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	httpserver.RegisterDI(injector)
	session.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	manager, err := do.Invoke[*session.Manager](injector)
	if err != nil {
		slog.Error("failed to resolve session manager", "error", err)
		os.Exit(1)
	}
	store := do.MustInvoke[*session.Store](injector)
	server := do.MustInvoke[*httpserver.Server](injector)

	dc.RegisterMessageHandler(manager.HandleMessage)
	dc.RegisterSlashCommandHandler(manager.HandleSlashCommand)
	dc.RegisterButtonHandler(manager.HandleButton)

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	botUserID, err := dc.GetBotUserID()
	if err != nil {
		slog.Error("failed to resolve bot user id", "error", err)
		os.Exit(1)
	}
	manager.SetBotUserID(botUserID)

	if err := dc.UpsertSlashCommands(cfg.DiscordGuildID, session.SlashCommandDefinitions()); err != nil {
		slog.Error("failed to upsert slash commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "commands", []string{session.SlashCommandStart, session.SlashCommandStop, session.SlashCommandHelp})
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	server.Start()
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go store.RunSweeper(sweepCtx, sweepInterval)

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("metrics server shutdown failed", "error", err)
	}
}
