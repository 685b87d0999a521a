package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"ooc-bot/internal/catalog"
	"ooc-bot/internal/models"
	"ooc-bot/internal/notify"
	"ooc-bot/pkg/tasks"
)

// Main menu labels. They double as message text, so the message handler
// checks them before handing anything to the resolver.
const (
	btnLastEpisode    = "Ultimo Episodio"
	btnRandomPill     = "Pillola Casuale"
	btnCategorySearch = "Ricerca per categoria"
	btnGuestSearch    = "Ricerca Ospite"
	btnBack           = "<-- INDIETRO"
)

const partCallbackPrefix = "part:"

func (h *Handlers) StartTelegramBot(bot *tgbotapi.BotAPI) {
	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			h.handleCallbackQuery(bot, update.CallbackQuery)
		case update.Message == nil:
			continue
		case update.Message.IsCommand():
			h.handleCommand(bot, update.Message)
		default:
			h.handleMessage(bot, update.Message)
		}
	}
}

func (h *Handlers) handleCommand(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		h.handleStart(bot, message)
	case "stats":
		h.adminOnly(bot, message, h.handleStats)
	case "users":
		h.adminOnly(bot, message, h.handleUsers)
	case "testcheck":
		h.adminOnly(bot, message, func(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
			h.enqueueCheck(bot, message, tasks.NewEpisodeCheckTask(), "check episodi")
		})
	case "testpill":
		h.adminOnly(bot, message, func(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
			h.enqueueCheck(bot, message, tasks.NewPillCheckTask(), "check pillole")
		})
	case "backfill":
		h.adminOnly(bot, message, func(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
			h.enqueueCheck(bot, message, tasks.NewBackfillTask(), "backfill metadati")
		})
	default:
		h.reply(bot, message.Chat.ID, "Non conosco questo comando.")
	}
}

func (h *Handlers) handleStart(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if err := h.svc.RegisterSubscriber(strconv.FormatInt(chatID, 10)); err != nil {
		log.Printf("Failed to register subscriber %d: %v", chatID, err)
	}

	maxID, err := h.svc.MaxEpisodeID()
	if err != nil {
		log.Printf("Failed to get max episode id: %v", err)
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Benvenuto! Seleziona una scelta dal menù principale, oppure scrivimi il nome e cognome di un ospite, oppure un numero da 0 a %d.",
		maxID))
	msg.ReplyMarkup = mainKeyboard()
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send start message: %v", err)
	}
}

func (h *Handlers) handleMessage(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	text := strings.TrimSpace(message.Text)
	chatID := message.Chat.ID
	log.Printf("[%d] %s", chatID, text)

	switch text {
	case btnLastEpisode:
		h.handleLastEpisode(bot, chatID)
	case btnRandomPill:
		h.handleRandomPill(bot, chatID)
	case btnBack:
		h.handleStart(bot, message)
	case btnCategorySearch:
		h.sendChoiceKeyboard(bot, chatID, "Seleziona la categoria da ricercare:", h.svc.Categories)
	case btnGuestSearch:
		h.sendChoiceKeyboard(bot, chatID, "Seleziona l'ospite da ricercare:", h.svc.Guests)
	default:
		h.handleQuery(bot, chatID, text)
	}
}

func (h *Handlers) handleQuery(bot *tgbotapi.BotAPI, chatID int64, text string) {
	res, err := h.svc.Resolve(text)
	if err != nil {
		log.Printf("Failed to resolve %q: %v", text, err)
		h.reply(bot, chatID, "Si è verificato un errore. Riprova tra poco.")
		return
	}

	h.recordQuery(chatID, res)

	switch res.Kind {
	case catalog.KindEpisode:
		h.sendEpisode(bot, chatID, *res.Episode, "")
	case catalog.KindDisambiguation:
		h.sendDisambiguation(bot, chatID, res)
	case catalog.KindGuestSelection:
		h.sendOptionsKeyboard(bot, chatID, "Seleziona l'ospite:", res.Options)
	default:
		msg := tgbotapi.NewMessage(chatID, res.Guidance)
		msg.ReplyMarkup = mainKeyboard()
		if _, err := bot.Send(msg); err != nil {
			log.Printf("Failed to send guidance: %v", err)
		}
	}
}

// recordQuery logs the usage stat for a resolved query. Labels follow the
// historical stats format so old and new rows aggregate together.
func (h *Handlers) recordQuery(chatID int64, res catalog.Resolution) {
	var label string
	switch {
	case res.Kind == catalog.KindNotFound || res.Kind == catalog.KindGuestSelection:
		return
	case res.Strategy == "number":
		label = "Numero"
	case res.Strategy == "guest":
		label = "Guest " + res.Term
	case res.Strategy == "category":
		label = "Category " + res.Term
	default:
		return
	}
	if err := h.svc.RecordQuery(strconv.FormatInt(chatID, 10), label); err != nil {
		log.Printf("Failed to record query stat: %v", err)
	}
}

func (h *Handlers) handleLastEpisode(bot *tgbotapi.BotAPI, chatID int64) {
	episode, err := h.svc.LastEpisode()
	if err != nil {
		log.Printf("Failed to get last episode: %v", err)
		h.reply(bot, chatID, "Si è verificato un errore. Riprova tra poco.")
		return
	}
	if episode == nil {
		h.reply(bot, chatID, "Nessun episodio trovato.")
		return
	}
	if err := h.svc.RecordQuery(strconv.FormatInt(chatID, 10), "Last"); err != nil {
		log.Printf("Failed to record query stat: %v", err)
	}
	h.sendEpisode(bot, chatID, *episode, "")
}

func (h *Handlers) handleRandomPill(bot *tgbotapi.BotAPI, chatID int64) {
	pill, err := h.svc.RandomPill()
	if err != nil {
		log.Printf("Failed to get random pill: %v", err)
		h.reply(bot, chatID, "Si è verificato un errore. Riprova tra poco.")
		return
	}
	if pill == nil {
		h.reply(bot, chatID, "Nessuna pillola disponibile.")
		return
	}
	if err := h.svc.RecordQuery(strconv.FormatInt(chatID, 10), "Random"); err != nil {
		log.Printf("Failed to record query stat: %v", err)
	}

	text := fmt.Sprintf("<b>%s</b>\n\nCiao! Se trovi utile questo bot, considera una donazione tramite i link in fondo.\n\n%s",
		pill.Title, pill.Description)
	buttons := notify.EpisodeButtons(models.Episode{AudioURL: pill.AudioURL})
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = notify.InlineKeyboard(buttons)
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send pill: %v", err)
	}
}

func (h *Handlers) sendEpisode(bot *tgbotapi.BotAPI, chatID int64, episode models.Episode, prefix string) {
	text := fmt.Sprintf("<b>%s</b>\n\n", episode.Title)
	if prefix != "" {
		text += prefix + "\n\n"
	}
	if episode.Description != "" {
		text += episode.Description
	} else {
		text += "Nessuna descrizione disponibile"
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = notify.InlineKeyboard(notify.EpisodeButtons(episode))
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send episode: %v", err)
	}
}

// sendDisambiguation renders a multi-match outcome. Part choices become
// inline callback buttons (the callback re-resolves the "<id>_<part>"
// query); title lists become a reply keyboard, one title per row.
func (h *Handlers) sendDisambiguation(bot *tgbotapi.BotAPI, chatID int64, res catalog.Resolution) {
	if res.Strategy == "number" {
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(res.Options))
		for _, opt := range res.Options {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(opt.Label, partCallbackPrefix+opt.Query)))
		}
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Ho trovato %d parti. Scegli quale ascoltare:", len(res.Options)))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		if _, err := bot.Send(msg); err != nil {
			log.Printf("Failed to send part keyboard: %v", err)
		}
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Ho trovato %d episodi. Scegli quale ascoltare:", len(res.Options)))
	msg.ReplyMarkup = optionsKeyboard(res.Options)
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send episode list keyboard: %v", err)
	}
}

func (h *Handlers) handleCallbackQuery(bot *tgbotapi.BotAPI, query *tgbotapi.CallbackQuery) {
	if _, err := bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.Printf("Failed to ack callback: %v", err)
	}
	if query.Message == nil || !strings.HasPrefix(query.Data, partCallbackPrefix) {
		return
	}
	h.handleQuery(bot, query.Message.Chat.ID, strings.TrimPrefix(query.Data, partCallbackPrefix))
}

func (h *Handlers) sendChoiceKeyboard(bot *tgbotapi.BotAPI, chatID int64, prompt string, load func() ([]string, error)) {
	values, err := load()
	if err != nil {
		log.Printf("Failed to load keyboard values: %v", err)
		h.reply(bot, chatID, "Si è verificato un errore. Riprova tra poco.")
		return
	}
	options := make([]catalog.Option, 0, len(values))
	for _, v := range values {
		options = append(options, catalog.Option{Label: v, Query: v})
	}
	h.sendOptionsKeyboard(bot, chatID, prompt, options)
}

func (h *Handlers) sendOptionsKeyboard(bot *tgbotapi.BotAPI, chatID int64, prompt string, options []catalog.Option) {
	msg := tgbotapi.NewMessage(chatID, prompt)
	msg.ReplyMarkup = optionsKeyboard(options)
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send options keyboard: %v", err)
	}
}

func (h *Handlers) reply(bot *tgbotapi.BotAPI, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLastEpisode),
			tgbotapi.NewKeyboardButton(btnRandomPill),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCategorySearch),
			tgbotapi.NewKeyboardButton(btnGuestSearch),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func optionsKeyboard(options []catalog.Option) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(options)+1)
	for _, opt := range options {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(opt.Query)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
