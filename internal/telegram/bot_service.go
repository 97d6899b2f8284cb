// Package telegram is the gateway adapter: it translates Telegram updates
// into matchmaker and ledger calls and delivers notices back to users.
package telegram

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gramroulette/internal/config"
	"gramroulette/internal/economy"
	"gramroulette/internal/localization"
	"gramroulette/internal/matchmaker"
	"gramroulette/internal/models"
	"gramroulette/internal/report"
	"gramroulette/internal/storage"
)

// Keyboard button labels, shared with the /start reply keyboard.
const (
	BtnSearch = "🔍 Search Partner"
	BtnStop   = "❌ End Chat"
	BtnReport = "⚠️ Report"
	BtnStatus = "📊 Status"
	BtnTokens = "💰 Tokens"
	BtnHelp   = "❓ Help"
)

// BotService receives Telegram updates and routes them to the matchmaker.
type BotService struct {
	BotAPI     *tgbotapi.BotAPI
	Matchmaker *matchmaker.Service
	Storage    storage.Storage
	Economy    *economy.Service
	Reports    *report.Service
	Localizer  *localization.Localizer
}

// NewBotService creates a new BotService instance.
func NewBotService(token string, mm *matchmaker.Service, s storage.Storage, e *economy.Service, r *report.Service) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	localizer, err := localization.NewLocalizer()
	if err != nil {
		return nil, fmt.Errorf("failed to create localizer: %w", err)
	}

	return &BotService{
		BotAPI:     bot,
		Matchmaker: mm,
		Storage:    s,
		Economy:    e,
		Reports:    r,
		Localizer:  localizer,
	}, nil
}

// Run is the main loop for receiving Telegram updates. Updates are
// processed one at a time, so matchmaker calls never interleave within
// the gateway itself.
func (b *BotService) Run() {
	b.setupCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.BotAPI.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallbackQuery(update.CallbackQuery)
		}
	}
}

func (b *BotService) setupCommands() {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "search", Description: "Search for a chat partner"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Cancel the search"},
		tgbotapi.BotCommand{Command: "stop", Description: "End current chat"},
		tgbotapi.BotCommand{Command: "report", Description: "Report user"},
		tgbotapi.BotCommand{Command: "status", Description: "Check current status"},
		tgbotapi.BotCommand{Command: "tokens", Description: "Check your tokens"},
		tgbotapi.BotCommand{Command: "refer", Description: "Use referral code"},
	)
	if _, err := b.BotAPI.Request(cmds); err != nil {
		log.Printf("failed to register bot commands: %v", err)
	}
}

// lang returns the user's language code, defaulting to English.
func (b *BotService) lang(chatID int64) string {
	user, err := b.Storage.GetOrCreateUser(chatID)
	if err != nil || user.Language == "" {
		return "en"
	}
	return user.Language
}

func (b *BotService) t(chatID int64, key string) string {
	return b.Localizer.GetString(b.lang(chatID), key)
}

func (b *BotService) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send Telegram message to %d: %v", chatID, err)
	}
}

func (b *BotService) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(chatID)
		case "search":
			b.handleSearch(chatID)
		case "cancel":
			b.handleCancel(chatID)
		case "stop":
			b.handleStop(chatID)
		case "report":
			b.handleReport(chatID)
		case "status":
			b.handleStatus(chatID)
		case "tokens":
			b.handleTokens(chatID)
		case "refer":
			b.handleRefer(chatID, msg.Text)
		case "help":
			b.reply(chatID, b.t(chatID, "help"))
		}
		return
	}

	switch msg.Text {
	case BtnSearch:
		b.handleSearch(chatID)
	case BtnStop:
		b.handleStop(chatID)
	case BtnReport:
		b.handleReport(chatID)
	case BtnStatus:
		b.handleStatus(chatID)
	case BtnTokens:
		b.handleTokens(chatID)
	case BtnHelp:
		b.reply(chatID, b.t(chatID, "help"))
	case "":
		// Media message. Only text is relayed between partners.
		if _, _, paired := b.Matchmaker.Partner(chatID); paired {
			b.reply(chatID, b.t(chatID, "unsupported_message_type"))
		}
	default:
		// Plain text: forwarded verbatim, dropped when not paired.
		b.Matchmaker.Relay(chatID, msg.Text)
	}
}

func (b *BotService) handleStart(chatID int64) {
	if _, err := b.Storage.GetOrCreateUser(chatID); err != nil {
		log.Printf("ERROR: Failed to bootstrap user %d: %v", chatID, err)
		b.reply(chatID, b.t(chatID, "generic_error"))
		return
	}

	msg := tgbotapi.NewMessage(chatID, b.t(chatID, "welcome"))
	msg.ReplyMarkup = mainKeyboard()
	if _, err := b.BotAPI.Send(msg); err != nil {
		log.Printf("ERROR: Failed to send welcome to %d: %v", chatID, err)
	}
}

func (b *BotService) handleSearch(chatID int64) {
	banned, err := b.Storage.IsUserBanned(chatID)
	if err != nil {
		log.Printf("ERROR: Failed to check ban for %d: %v", chatID, err)
	}
	if banned {
		b.reply(chatID, b.t(chatID, "banned"))
		return
	}

	result, err := b.Matchmaker.Search(chatID)
	switch {
	case errors.Is(err, matchmaker.ErrAlreadyInSession):
		b.reply(chatID, b.t(chatID, "already_in_chat"))
	case errors.Is(err, matchmaker.ErrAlreadySearching):
		b.reply(chatID, b.t(chatID, "already_searching"))
	case err != nil:
		b.reply(chatID, b.t(chatID, "generic_error"))
	case result.Matched:
		b.reply(chatID, b.t(chatID, "match_found"))
	default:
		b.reply(chatID, b.t(chatID, "searching"))
	}
}

func (b *BotService) handleCancel(chatID int64) {
	if err := b.Matchmaker.CancelSearch(chatID); err != nil {
		b.reply(chatID, b.t(chatID, "not_searching"))
		return
	}
	b.reply(chatID, b.t(chatID, "search_cancelled"))
}

func (b *BotService) handleStop(chatID int64) {
	result, err := b.Matchmaker.EndSession(chatID)
	if err != nil {
		b.reply(chatID, b.t(chatID, "not_in_chat"))
		return
	}

	if result.Rewarded {
		b.reply(chatID, fmt.Sprintf(b.t(chatID, "chat_ended_reward"), config.ChatReward))
	} else {
		b.reply(chatID, b.t(chatID, "chat_ended"))
	}

	if result.RatingToken != "" {
		prompt := tgbotapi.NewMessage(chatID, b.t(chatID, "rate_prompt"))
		prompt.ReplyMarkup = ratingKeyboard(result.RatingToken)
		if _, err := b.BotAPI.Send(prompt); err != nil {
			log.Printf("ERROR: Failed to send rating prompt to %d: %v", chatID, err)
		}
	}
}

func (b *BotService) handleReport(chatID int64) {
	partner, sessionID, ok := b.Matchmaker.Partner(chatID)
	if !ok {
		b.reply(chatID, b.t(chatID, "not_in_chat_report"))
		return
	}

	r := &models.Report{
		ReporterID:     chatID,
		ReportedUserID: partner,
		SessionID:      sessionID,
		Severity:       "Medium",
	}
	if err := b.Reports.HandleReport(r); err != nil {
		log.Printf("ERROR: Failed to handle report from %d: %v", chatID, err)
		b.reply(chatID, b.t(chatID, "generic_error"))
		return
	}
	b.reply(chatID, b.t(chatID, "report_received"))
}

func (b *BotService) handleStatus(chatID int64) {
	status := b.Matchmaker.Status(chatID)

	lines := []string{b.t(chatID, "status_header")}
	switch status.State {
	case matchmaker.StateInSession:
		lines = append(lines, b.t(chatID, "status_in_chat"))
	case matchmaker.StateWaiting:
		lines = append(lines, b.t(chatID, "status_waiting"))
	default:
		lines = append(lines, b.t(chatID, "status_idle"))
	}
	lines = append(lines,
		fmt.Sprintf(b.t(chatID, "status_waiting_count"), status.Waiting),
		fmt.Sprintf(b.t(chatID, "status_active_chats"), status.ActiveSessions),
	)
	b.reply(chatID, strings.Join(lines, "\n"))
}

func (b *BotService) handleTokens(chatID int64) {
	user, err := b.Storage.GetOrCreateUser(chatID)
	if err != nil {
		log.Printf("ERROR: Failed to load user %d: %v", chatID, err)
		b.reply(chatID, b.t(chatID, "generic_error"))
		return
	}
	b.reply(chatID, fmt.Sprintf(b.t(chatID, "tokens_balance"),
		user.Tokens, user.DailyChats, config.DailyChatLimit, user.ReferralCode))
}

func (b *BotService) handleRefer(chatID int64, text string) {
	args := strings.Fields(text)
	if len(args) != 2 {
		b.reply(chatID, b.t(chatID, "refer_usage"))
		return
	}
	code := strings.ToUpper(args[1])

	err := b.Economy.UseReferralCode(chatID, code)
	switch {
	case errors.Is(err, economy.ErrReferralAlreadyUsed):
		b.reply(chatID, b.t(chatID, "refer_already_used"))
	case errors.Is(err, economy.ErrSelfReferral):
		b.reply(chatID, b.t(chatID, "refer_self"))
	case errors.Is(err, economy.ErrInvalidReferralCode):
		b.reply(chatID, b.t(chatID, "refer_invalid"))
	case err != nil:
		b.reply(chatID, b.t(chatID, "generic_error"))
	default:
		b.reply(chatID, fmt.Sprintf(b.t(chatID, "refer_success"), config.RefereeBonus))
	}
}

func (b *BotService) handleCallbackQuery(cb *tgbotapi.CallbackQuery) {
	// Acknowledge regardless of outcome to clear the loading state.
	if _, err := b.BotAPI.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("failed to send callback response: %v", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	token, score, ok := ParseRatingCallback(cb.Data)
	if !ok {
		return
	}

	err := b.Matchmaker.SubmitRating(token, score)
	switch {
	case errors.Is(err, matchmaker.ErrInvalidRatingScore):
		b.reply(chatID, b.t(chatID, "rating_invalid"))
	case errors.Is(err, matchmaker.ErrUnknownRatingToken):
		b.reply(chatID, b.t(chatID, "rating_expired"))
	case err != nil:
		b.reply(chatID, b.t(chatID, "generic_error"))
	default:
		b.reply(chatID, b.t(chatID, "rating_saved"))
	}
}

// Notify implements matchmaker.Notifier: it delivers partner-side events.
// Sends are fire-and-forget; a failed send is logged, never retried.
func (b *BotService) Notify(notice models.Notice) {
	switch notice.Type {
	case models.NoticeRelay:
		b.reply(notice.UserID, notice.Content)
	case models.NoticeMatchFound:
		b.reply(notice.UserID, b.t(notice.UserID, "match_found"))
	case models.NoticePartnerDisconnect:
		b.reply(notice.UserID, b.t(notice.UserID, "partner_disconnected"))
	default:
		log.Printf("Unhandled notice type for %d: %s", notice.UserID, notice.Type)
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnSearch),
			tgbotapi.NewKeyboardButton(BtnStop),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnReport),
			tgbotapi.NewKeyboardButton(BtnStatus),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnTokens),
			tgbotapi.NewKeyboardButton(BtnHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
