package telegram

import (
	"context"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kirillkom/wiki-assistant/internal/core/domain"
)

const (
	startReply = "Привет! Я ассистент корпоративной вики. Задайте вопрос, и я поищу ответ в базе знаний."
	helpReply  = "Просто напишите ваш вопрос обычным сообщением. Я найду подходящие страницы вики и отвечу на их основе."
	errorReply = "Извините, не получилось обработать ваш запрос. Попробуйте ещё раз чуть позже."
)

// Bot long-polls Telegram and forwards questions to the agent.
type Bot struct {
	api   *tgbotapi.BotAPI
	agent *AgentClient
}

func NewBot(token string, debug bool, agent *AgentClient) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug
	slog.Info("telegram_bot_authorized", "username", api.Self.UserName)
	return &Bot{api: api, agent: agent}, nil
}

// Run processes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil || message.From == nil || message.From.IsBot {
		return
	}

	switch message.Command() {
	case "start":
		b.reply(message.Chat.ID, startReply)
		return
	case "help":
		b.reply(message.Chat.ID, helpReply)
		return
	}

	if message.Text == "" {
		return
	}

	b.sendTyping(message.Chat.ID)

	sessionID := strconv.FormatInt(message.Chat.ID, 10)
	answer, err := b.agent.Ask(ctx, sessionID, message.Text)
	if err != nil {
		if domain.IsKind(err, domain.ErrUnauthorized) {
			slog.Error("telegram_agent_auth_failed", "chat_id", message.Chat.ID, "error", err)
		} else {
			slog.Error("telegram_ask_failed", "chat_id", message.Chat.ID, "error", err)
		}
		b.reply(message.Chat.ID, errorReply)
		return
	}
	b.reply(message.Chat.ID, answer)
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("telegram_send_failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) sendTyping(chatID int64) {
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	if _, err := b.api.Request(action); err != nil {
		slog.Warn("telegram_typing_failed", "chat_id", chatID, "error", err)
	}
}
