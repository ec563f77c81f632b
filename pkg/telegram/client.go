package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier pushes a briefing summary to a chat channel. Delivery is
// best-effort; callers log failures and move on.
type Notifier interface {
	SendMessage(text string) error
}

// client sends to a single configured chat.
type client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewClient authenticates the bot and returns a Notifier bound to the chat.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// SendMessage sends one Markdown-formatted message to the configured chat.
func (c *client) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := c.bot.Send(msg)
	return err
}
