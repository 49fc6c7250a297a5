package songs

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// escape makes user supplied text safe inside a ModeMarkdown message.
func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

const telegramResultLimit = 10

// TelegramHandler handles Telegram commands for the songs feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the songs feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes song related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	if command != "songs" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown songs command. Use /songs [search]"))
		return nil
	}

	songs, err := h.service.ListSongs(context.Background(), "", "", strings.TrimSpace(args), "")
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Failed to list songs"))
		return err
	}

	var b strings.Builder
	if len(songs) == 0 {
		b.WriteString("🔍 No songs found")
	} else {
		fmt.Fprintf(&b, "🎵 *Songs* (%d)\n\n", len(songs))
		for i, s := range songs {
			if i == telegramResultLimit {
				fmt.Fprintf(&b, "… and %d more", len(songs)-telegramResultLimit)
				break
			}
			fmt.Fprintf(&b, "• %s by %s (%s)\n",
				escape(s.Title), escape(s.Artist), escape(s.Genre))
		}
	}

	msg := tgbotapi.NewMessage(chatID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"songs": "List or search songs (/songs or /songs <text>)",
	}
}

// HandleCallback handles callback queries for this feature (songs has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}
