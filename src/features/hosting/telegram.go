package hosting

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/contre95/songbase/src/features/config"
	"github.com/contre95/songbase/src/features/importing"
	"github.com/contre95/songbase/src/features/songs"
	"github.com/contre95/songbase/src/features/stats"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// escape makes user supplied text safe inside a ModeMarkdown message.
func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

// TelegramCommandHandler interface that each feature implements
type TelegramCommandHandler interface {
	HandleCommand(bot *tgbotapi.BotAPI, chatID int64, command string, args string) error
	GetCommands() map[string]string                                             // Returns command -> description mapping
	HandleCallback(bot *tgbotapi.BotAPI, callback *tgbotapi.CallbackQuery) bool // Handle feature-specific callbacks
}

// commandFeatures maps every bot command to the feature that serves it.
var commandFeatures = map[string]string{
	"stats":  "stats",
	"latest": "stats",
	"songs":  "songs",
	"config": "config",
	"import": "importing",
}

// menuCommands maps inline menu buttons to bot commands.
var menuCommands = map[string]string{
	"menu_stats":  "stats",
	"menu_latest": "latest",
	"menu_songs":  "songs",
	"menu_import": "import",
	"menu_config": "config",
}

// TelegramBot handles Telegram bot operations
type TelegramBot struct {
	bot           *tgbotapi.BotAPI
	config        *config.Manager
	handlers      map[string]TelegramCommandHandler
	updates       tgbotapi.UpdatesChannel
	stopChan      chan struct{}
	pendingMu     sync.Mutex
	pendingInputs map[string]string // chatID_messageID -> callbackData
}

// NewTelegramBot creates a new Telegram bot instance. importingService may be nil when
// imports are disabled.
func NewTelegramBot(cfg *config.Manager, statsService *stats.Service, songsService *songs.Service, importingService *importing.Service) (*TelegramBot, error) {
	telegramConfig := cfg.Get().Telegram

	if !telegramConfig.Enabled {
		return nil, fmt.Errorf("telegram bot is disabled in configuration")
	}

	if telegramConfig.Token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(telegramConfig.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot initialized", "username", bot.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30

	telegramBot := &TelegramBot{
		bot:           bot,
		config:        cfg,
		handlers:      make(map[string]TelegramCommandHandler),
		updates:       bot.GetUpdatesChan(updateConfig),
		stopChan:      make(chan struct{}),
		pendingInputs: make(map[string]string),
	}

	telegramBot.RegisterHandler("stats", stats.NewTelegramHandler(statsService))
	telegramBot.RegisterHandler("songs", songs.NewTelegramHandler(songsService))
	telegramBot.RegisterHandler("config", config.NewTelegramHandler(cfg))
	if importingService != nil {
		telegramBot.RegisterHandler("importing", importing.NewTelegramHandler(importingService))
	}

	return telegramBot, nil
}

// RegisterHandler registers a feature's command handler
func (t *TelegramBot) RegisterHandler(feature string, handler TelegramCommandHandler) {
	t.handlers[feature] = handler
	slog.Debug("Registered Telegram handler", "feature", feature)
}

// Start begins listening for Telegram updates
func (t *TelegramBot) Start() {
	slog.Info("Starting Telegram bot listener")

	for {
		select {
		case update := <-t.updates:
			if update.Message != nil {
				go t.handleMessage(update)
			}
			if update.CallbackQuery != nil {
				go t.handleCallbackQuery(update)
			}
		case <-t.stopChan:
			slog.Info("Stopping Telegram bot listener")
			return
		}
	}
}

// Stop gracefully stops the bot
func (t *TelegramBot) Stop() {
	t.bot.StopReceivingUpdates()
	close(t.stopChan)
}

// isAllowed reports whether the sender is listed in the configured allowed users.
func isAllowed(allowedUsers []string, from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	username := from.UserName
	if username == "" {
		username = from.FirstName
		if from.LastName != "" {
			username += " " + from.LastName
		}
	}
	return slices.Contains(allowedUsers, username)
}

// handleMessage processes incoming messages
func (t *TelegramBot) handleMessage(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID

	allowedUsers := t.config.Get().Telegram.AllowedUsers
	if len(allowedUsers) == 0 {
		slog.Warn("No allowed users configured", "chat_id", chatID)
		t.sendMessage(chatID, "❌ Access denied: No users configured. Please add users to the config.")
		return
	}
	if !isAllowed(allowedUsers, message.From) {
		slog.Warn("Unauthorized user", "chat_id", chatID)
		t.sendMessage(chatID, "Unknown user, please add your user to the config")
		return
	}

	if message.IsCommand() {
		t.handleCommand(update)
		return
	}

	if message.ReplyToMessage != nil && t.handleReplyInput(message) {
		return
	}

	t.sendMessage(chatID, "🤖 Send /menu or /help to see available options")
}

// handleCommand processes bot commands
func (t *TelegramBot) handleCommand(update tgbotapi.Update) {
	message := update.Message
	chatID := message.Chat.ID
	command := message.Command()
	args := message.CommandArguments()

	slog.Debug("Processing command", "command", command, "args", args, "chat_id", chatID)

	switch command {
	case "help", "start", "menu":
		t.handleHelp(chatID)
	default:
		if err := t.routeCommand(command, args, chatID); err != nil {
			slog.Error("Failed to handle command", "command", command, "error", err)
			t.sendMessage(chatID, "❌ Failed to process command")
		}
	}
}

// routeCommand routes commands to the appropriate feature handler
func (t *TelegramBot) routeCommand(command, args string, chatID int64) error {
	feature, exists := commandFeatures[command]
	if !exists {
		t.sendMessage(chatID, "❌ Unknown command. Send /help to see available commands.")
		return nil
	}

	handler, exists := t.handlers[feature]
	if !exists {
		t.sendMessage(chatID, fmt.Sprintf("❌ %s feature not available", escape(feature)))
		return nil
	}

	return handler.HandleCommand(t.bot, chatID, command, args)
}

// sendMessage sends a message to the specified chat
func (t *TelegramBot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send message", "error", err, "chat_id", chatID)
	}
}

// handleCallbackQuery handles callback queries from inline keyboards
func (t *TelegramBot) handleCallbackQuery(update tgbotapi.Update) {
	callback := update.CallbackQuery

	// Answer callback to remove loading state
	defer t.bot.Request(tgbotapi.NewCallback(callback.ID, ""))

	if callback.Message == nil || !isAllowed(t.config.Get().Telegram.AllowedUsers, callback.From) {
		return
	}

	if strings.HasPrefix(callback.Data, "menu_") {
		t.handleMenuCallback(callback)
		return
	}

	for _, handler := range t.handlers {
		if handler.HandleCallback(t.bot, callback) {
			break
		}
	}
}

// helpText lists the commands of every registered feature.
func (t *TelegramBot) helpText() string {
	var lines []string
	for _, handler := range t.handlers {
		for cmd, desc := range handler.GetCommands() {
			lines = append(lines, fmt.Sprintf("/%s - %s", cmd, escape(desc)))
		}
	}
	sort.Strings(lines)
	return "*🤖 Songbase Main Menu*\n\n" + strings.Join(lines, "\n") + "\n\nChoose an action below or use commands directly:"
}

// handleHelp shows main menu with inline keyboard
func (t *TelegramBot) handleHelp(chatID int64) {
	buttons := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", "menu_stats"),
			tgbotapi.NewInlineKeyboardButtonData("🆕 Latest", "menu_latest"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("🔍 Search songs", "menu_search"),
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Config", "menu_config"),
		},
	}
	if _, ok := t.handlers["importing"]; ok {
		buttons = append(buttons, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📥 Import", "menu_import"),
		})
	}

	msg := tgbotapi.NewMessage(chatID, t.helpText())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	if _, err := t.bot.Send(msg); err != nil {
		slog.Error("Failed to send menu", "error", err, "chat_id", chatID)
	}
}

// handleMenuCallback handles main menu callback queries
func (t *TelegramBot) handleMenuCallback(callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	if callback.Data == "menu_search" {
		t.promptForInput(chatID, "🔍 *Search songs*\n\nPlease reply with a title, artist or album:", "menu_search")
		return
	}

	command, ok := menuCommands[callback.Data]
	if !ok {
		t.sendMessage(chatID, "❌ Unknown menu option")
		return
	}
	if err := t.routeCommand(command, "", chatID); err != nil {
		slog.Error("Failed to handle menu command", "command", command, "error", err)
		t.sendMessage(chatID, "❌ Failed to process menu selection")
	}
}

// promptForInput sends a message that forces user to reply with input
func (t *TelegramBot) promptForInput(chatID int64, promptText, callbackData string) {
	msg := tgbotapi.NewMessage(chatID, promptText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.ForceReply{ForceReply: true}

	sentMsg, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Failed to send prompt", "error", err)
		return
	}
	t.storePendingInput(chatID, sentMsg.MessageID, callbackData)
}

// storePendingInput stores information about pending user input
func (t *TelegramBot) storePendingInput(chatID int64, messageID int, callbackData string) {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	t.pendingInputs[fmt.Sprintf("%d_%d", chatID, messageID)] = callbackData
}

// takePendingInput removes and returns the pending input for a prompt
func (t *TelegramBot) takePendingInput(chatID int64, messageID int) (string, bool) {
	t.pendingMu.Lock()
	defer t.pendingMu.Unlock()
	key := fmt.Sprintf("%d_%d", chatID, messageID)
	data, ok := t.pendingInputs[key]
	delete(t.pendingInputs, key)
	return data, ok
}

// handleReplyInput handles replies to our input prompts
func (t *TelegramBot) handleReplyInput(message *tgbotapi.Message) bool {
	chatID := message.Chat.ID
	callbackData, exists := t.takePendingInput(chatID, message.ReplyToMessage.MessageID)
	if !exists {
		return false
	}

	switch callbackData {
	case "menu_search":
		if err := t.routeCommand("songs", message.Text, chatID); err != nil {
			slog.Error("Failed to search songs", "error", err)
			t.sendMessage(chatID, "❌ Failed to process search")
		}
		return true
	default:
		return false
	}
}
