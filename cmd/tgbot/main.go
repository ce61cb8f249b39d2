package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/wiki-assistant/internal/adapters/telegram"
	"github.com/kirillkom/wiki-assistant/internal/config"
	"github.com/kirillkom/wiki-assistant/internal/observability/logging"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("wiki-tgbot", cfg.LogLevel))

	if cfg.TelegramBotToken == "" {
		slog.Error("telegram_token_missing", "env", "TELEGRAM_BOT_TOKEN")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agent := telegram.NewAgentClient(cfg.AgentBaseURL, cfg.AgentAuthToken)
	bot, err := telegram.NewBot(cfg.TelegramBotToken, cfg.TelegramDebug, agent)
	if err != nil {
		slog.Error("telegram_bot_init_failed", "error", err)
		os.Exit(1)
	}

	slog.Info("tgbot_started", "agent_url", cfg.AgentBaseURL)
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("tgbot_stopped", "error", err)
		os.Exit(1)
	}
}
