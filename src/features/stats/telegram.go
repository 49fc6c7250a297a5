package stats

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

// TelegramHandler handles Telegram commands for the stats feature
type TelegramHandler struct {
	service *Service
}

// NewTelegramHandler creates a new Telegram handler for the stats feature
func NewTelegramHandler(service *Service) *TelegramHandler {
	return &TelegramHandler{service: service}
}

// HandleCommand processes stats related Telegram commands
func (h *TelegramHandler) HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error {
	report, err := h.service.GetReport(context.Background())
	if err != nil {
		bot.Send(tgbotapi.NewMessage(chatID, "❌ Failed to compute statistics"))
		return err
	}

	var text string
	switch command {
	case "stats":
		text = FormatSummary(report)
	case "latest":
		text = FormatLatest(report)
	default:
		text = "❌ Unknown stats command. Use /stats or /latest"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = bot.Send(msg)
	return err
}

// GetCommands returns the available commands for this handler
func (h *TelegramHandler) GetCommands() map[string]string {
	return map[string]string{
		"stats":  "Show catalog statistics",
		"latest": "Show the most recently added songs",
	}
}

// HandleCallback handles callback queries for this feature (stats has no callbacks)
func (h *TelegramHandler) HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool {
	return false
}

// FormatSummary renders the headline numbers of a report as a Markdown message.
func FormatSummary(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Catalog Statistics*\n\n")
	fmt.Fprintf(&b, "🎵 Songs: `%d`\n", r.TotalSongs)
	fmt.Fprintf(&b, "👤 Artists: `%d`\n", r.TotalArtists)
	fmt.Fprintf(&b, "💿 Albums: `%d`\n", r.TotalAlbums)
	fmt.Fprintf(&b, "🏷 Genres: `%d`\n", r.TotalGenres)
	fmt.Fprintf(&b, "📈 Songs per album: `%.2f`\n", r.AverageSongsPerAlbum)
	if r.MostProductiveArtist != nil {
		fmt.Fprintf(&b, "🏆 Most productive: %s (%d songs)\n", escape(r.MostProductiveArtist.Artist), r.MostProductiveArtist.SongCount)
	}
	if len(r.TopGenres) > 0 {
		b.WriteString("\n*Top genres*\n")
		for i, g := range r.TopGenres {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, escape(g.Genre), g.Count)
		}
	}
	return b.String()
}

// FormatLatest renders the latest songs of a report as a Markdown message.
func FormatLatest(r *Report) string {
	if len(r.LatestSongs) == 0 {
		return "📭 The catalog is empty"
	}
	var b strings.Builder
	b.WriteString("🆕 *Latest songs*\n\n")
	for _, s := range r.LatestSongs {
		fmt.Fprintf(&b, "• %s by %s (%s, %s)\n",
			escape(s.Title), escape(s.Artist),
			escape(s.Album), escape(s.Genre))
	}
	return b.String()
}
