package notify

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramTransport delivers messages through the Bot API.
type TelegramTransport struct {
	bot *tgbotapi.BotAPI
}

func NewTelegramTransport(bot *tgbotapi.BotAPI) *TelegramTransport {
	return &TelegramTransport{bot: bot}
}

func (t *TelegramTransport) Send(chatID, text string, buttons []Button) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", chatID, err)
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if len(buttons) > 0 {
		msg.ReplyMarkup = InlineKeyboard(buttons)
	}

	if _, err := t.bot.Send(msg); err != nil {
		if isPermanentDeliveryError(err) {
			return fmt.Errorf("send to %s: %v: %w", chatID, err, ErrRecipientGone)
		}
		return fmt.Errorf("send to %s: %w", chatID, err)
	}
	return nil
}

// InlineKeyboard renders buttons one per row, matching how the original
// episode messages look.
func InlineKeyboard(buttons []Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(b.Label, b.URL)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func isPermanentDeliveryError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blocked by the user") ||
		strings.Contains(msg, "user is deactivated") ||
		strings.Contains(msg, "chat not found")
}

// TelegramOperator sends operational alerts to the admin chat. Failures are
// swallowed: an alert must never take down the cycle that raised it.
type TelegramOperator struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
}

func NewTelegramOperator(bot *tgbotapi.BotAPI, adminChatID int64) *TelegramOperator {
	return &TelegramOperator{bot: bot, adminChatID: adminChatID}
}

func (o *TelegramOperator) Notify(text string) {
	if o.adminChatID == 0 {
		return
	}
	if _, err := o.bot.Send(tgbotapi.NewMessage(o.adminChatID, text)); err != nil {
		log.Printf("Could not notify operator: %v", err)
	}
}
