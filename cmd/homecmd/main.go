package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"home-command/config"
	"home-command/internal/application"
	"home-command/internal/infra/anthropic"
	"home-command/internal/infra/gemini"
	"home-command/internal/infra/httpapi"
	"home-command/internal/infra/processor"
	"home-command/internal/infra/pushover"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	client := processor.NewClient(cfg.Processor.Address, cfg.Processor.AuthKey)
	llm := createFunctionCaller(cfg.LLM)

	orchestrator := application.NewOrchestrator(client, client, llm, logger)

	var notifier application.Notifier
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
	} else {
		notifier = &application.NoopNotifier{}
	}

	server := httpapi.NewServer(cfg.HTTP.Addr, cfg.HTTP.AuthToken, orchestrator, notifier, logger)

	logger.Info("starting home command service",
		"llm_provider", cfg.LLM.Provider,
		"processor", cfg.Processor.Address,
	)

	if err := server.Start(ctx); err != nil {
		logger.Error("starting server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := server.Stop(); err != nil {
		logger.Error("stopping server", "error", err)
		os.Exit(1)
	}
}

func createFunctionCaller(cfg config.LLMConfig) application.FunctionCaller {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	default:
		return anthropic.NewClaudeClient(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
