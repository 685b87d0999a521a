package notify

import (
	"errors"
	"fmt"
	"log"

	"ooc-bot/internal/models"
)

// ErrRecipientGone marks a delivery failure that will never recover, e.g.
// the user blocked the bot. Transports wrap it so the fanout can tell
// permanent failures from transient ones.
var ErrRecipientGone = errors.New("recipient permanently unreachable")

// Button is one inline URL button attached to a message.
type Button struct {
	Label string
	URL   string
}

// Transport delivers one message to one chat.
type Transport interface {
	Send(chatID, text string, buttons []Button) error
}

// Operator receives best-effort operational alerts.
type Operator interface {
	Notify(text string)
}

// SubscriberStore is the slice of storage the fanout needs.
type SubscriberStore interface {
	ActiveSubscribers() ([]string, error)
	DeactivateSubscriber(chatID string) error
}

// Summary counts one broadcast round.
type Summary struct {
	Sent        int
	Failed      int
	Deactivated int
}

// Fanout announces a newly committed episode to every active subscriber.
type Fanout struct {
	store     SubscriberStore
	transport Transport
	operator  Operator
}

func NewFanout(store SubscriberStore, transport Transport, operator Operator) *Fanout {
	return &Fanout{store: store, transport: transport, operator: operator}
}

// Broadcast attempts delivery to every subscriber active at the start of the
// round, exactly once each. Failures are independent: a permanent failure
// deactivates that subscriber, a transient one just counts as failed. There
// is no retry queue; delivery is at-most-once per episode.
func (f *Fanout) Broadcast(episode models.Episode) Summary {
	subscribers, err := f.store.ActiveSubscribers()
	if err != nil {
		log.Printf("Failed to load subscribers for broadcast: %v", err)
		f.operator.Notify(fmt.Sprintf("Errore nel recupero degli iscritti: %v", err))
		return Summary{}
	}

	text := announcementText(episode)
	buttons := EpisodeButtons(episode)

	var summary Summary
	for _, chatID := range subscribers {
		err := f.transport.Send(chatID, text, buttons)
		switch {
		case err == nil:
			summary.Sent++
		case errors.Is(err, ErrRecipientGone):
			summary.Failed++
			summary.Deactivated++
			log.Printf("Subscriber %s unreachable, deactivating: %v", chatID, err)
			if derr := f.store.DeactivateSubscriber(chatID); derr != nil {
				log.Printf("Failed to deactivate subscriber %s: %v", chatID, derr)
			}
		default:
			summary.Failed++
			log.Printf("Failed to notify subscriber %s: %v", chatID, err)
		}
	}

	f.operator.Notify(fmt.Sprintf(
		"Nuovo episodio pubblicato e notificato\n%d utenti notificati, %d falliti\n%s",
		summary.Sent, summary.Failed, episode.Title))

	return summary
}

func announcementText(episode models.Episode) string {
	return fmt.Sprintf(
		"<b>Nuovo episodio del tuo podcast preferito!</b>\n\n<b>%s</b>\n\n%s",
		episode.Title, episode.Description)
}

// EpisodeButtons builds the inline buttons for an episode message: listen
// link, shownotes when resolved, and the donation links.
func EpisodeButtons(episode models.Episode) []Button {
	var buttons []Button
	if episode.AudioURL != "" && episode.AudioURL != models.Unknown {
		buttons = append(buttons, Button{Label: "🎧 Ascoltalo su Spotify 🎧", URL: episode.AudioURL})
	}
	if episode.HasShownotes() {
		buttons = append(buttons, Button{Label: "📝 Shownotes 📝", URL: episode.ShownotesURL})
	}
	buttons = append(buttons,
		Button{Label: "Ko-Fi☕️", URL: "https://ko-fi.com/simonececconi"},
		Button{Label: "Donazione PayPal", URL: "https://www.paypal.com/paypalme/SimoneCecconi"},
	)
	return buttons
}
