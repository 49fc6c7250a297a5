package importing

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

// TelegramHandler handles Telegram commands for importing
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for importing
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes import related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	if command != "import" {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Unknown import command. Use /import"))
		return nil
	}

	summary, err := h.service.ScanDirectory(context.Background())
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Import failed"))
		return err
	}
	msg := tgbotapi.NewMessage(chatID, FormatSummary(summary))
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"import": "Import the YAML and CSV files waiting in the import directory",
	}
}

// HandleCallback handles callback queries for this feature (importing has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// FormatSummary renders a scan summary as a Telegram message.
func FormatSummary(summary *Summary) string {
	if summary.Files == 0 {
		return "📭 *Import*\n\nNo files waiting to be imported"
	}
	var b strings.Builder
	b.WriteString("📥 *Import finished*\n\n")
	fmt.Fprintf(&b, "Files: %d\nImported: %d\nSkipped: %d\n", summary.Files, summary.Imported, summary.Skipped)
	for i, e := range summary.Errors {
		if i == 5 {
			fmt.Fprintf(&b, "…and %d more\n", len(summary.Errors)-5)
			break
		}
		if e.Entry > 0 {
			fmt.Fprintf(&b, "• %s #%d: %s\n", escape(e.File), e.Entry, escape(e.Message))
		} else {
			fmt.Fprintf(&b, "• %s: %s\n", escape(e.File), escape(e.Message))
		}
	}
	return b.String()
}
