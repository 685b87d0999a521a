package handlers

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hibiken/asynq"
)

func (h *Handlers) adminOnly(bot *tgbotapi.BotAPI, message *tgbotapi.Message, handler func(*tgbotapi.BotAPI, *tgbotapi.Message)) {
	if message.Chat.ID != h.adminChatID {
		h.reply(bot, message.Chat.ID, "Non sei autorizzato.")
		return
	}
	handler(bot, message)
}

func (h *Handlers) handleStats(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	stats, err := h.svc.Stats()
	if err != nil {
		log.Printf("Failed to load stats: %v", err)
		h.reply(bot, message.Chat.ID, fmt.Sprintf("Errore: %v", err))
		return
	}

	var top strings.Builder
	if len(stats.TopQueries) == 0 {
		top.WriteString("  Nessuna query registrata")
	}
	for _, q := range stats.TopQueries {
		fmt.Fprintf(&top, "  • %s: %d\n", q.Query, q.Count)
	}

	lastTitle := stats.LastEpisodeTitle
	if lastTitle == "" {
		lastTitle = "N/A"
	}

	text := fmt.Sprintf(
		"<b>Statistiche Bot</b>\n\n"+
			"<b>Database:</b>\nEpisodi: %d\nPillole: %d\nCategorie: %d\nOspiti: %d\n\n"+
			"<b>Utenti:</b>\nUtenti attivi: %d\nQuery totali: %d\n\n"+
			"<b>Top 5 ricerche:</b>\n%s\n"+
			"<b>Ultimo episodio:</b>\n%s",
		stats.Episodes, stats.Pills, stats.Categories, stats.Guests,
		stats.Subscribers, stats.Queries, top.String(), lastTitle)

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send stats: %v", err)
	}
}

func (h *Handlers) handleUsers(bot *tgbotapi.BotAPI, message *tgbotapi.Message) {
	subscribers, err := h.svc.ActiveSubscribers()
	if err != nil {
		log.Printf("Failed to list subscribers: %v", err)
		h.reply(bot, message.Chat.ID, fmt.Sprintf("Errore: %v", err))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<b>Utenti registrati: %d</b>\n\n", len(subscribers))
	const maxListed = 20
	for i, chatID := range subscribers {
		if i == maxListed {
			fmt.Fprintf(&b, "\n... e altri %d utenti", len(subscribers)-maxListed)
			break
		}
		fmt.Fprintf(&b, "%d. <code>%s</code>\n", i+1, chatID)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bot.Send(msg); err != nil {
		log.Printf("Failed to send user list: %v", err)
	}
}

func (h *Handlers) enqueueCheck(bot *tgbotapi.BotAPI, message *tgbotapi.Message, task *asynq.Task, name string) {
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		log.Printf("Failed to enqueue %s: %v", name, err)
		h.reply(bot, message.Chat.ID, fmt.Sprintf("Errore nell'accodare il %s: %v", name, err))
		return
	}
	h.reply(bot, message.Chat.ID, fmt.Sprintf("Accodato %s, controlla i log del worker.", name))
}
