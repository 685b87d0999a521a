package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ooc-bot/internal/models"
)

type fakeSubscriberStore struct {
	active      []string
	deactivated []string
	listErr     error
}

func (f *fakeSubscriberStore) ActiveSubscribers() ([]string, error) {
	return f.active, f.listErr
}

func (f *fakeSubscriberStore) DeactivateSubscriber(chatID string) error {
	f.deactivated = append(f.deactivated, chatID)
	for i, id := range f.active {
		if id == chatID {
			f.active = append(f.active[:i], f.active[i+1:]...)
			break
		}
	}
	return nil
}

type fakeTransport struct {
	sent    []string
	failing map[string]error
}

func (f *fakeTransport) Send(chatID, text string, buttons []Button) error {
	if err, ok := f.failing[chatID]; ok {
		return err
	}
	f.sent = append(f.sent, chatID)
	return nil
}

type captureOperator struct {
	alerts []string
}

func (c *captureOperator) Notify(text string) {
	c.alerts = append(c.alerts, text)
}

func TestBroadcastDeactivatesGoneRecipients(t *testing.T) {
	store := &fakeSubscriberStore{active: []string{"100", "200", "300"}}
	transport := &fakeTransport{failing: map[string]error{
		"200": fmt.Errorf("send message: %w", ErrRecipientGone),
	}}
	operator := &captureOperator{}
	fanout := NewFanout(store, transport, operator)

	episode := models.Episode{EpisodeID: 143, Part: 1, Title: "143 Ospite speciale"}
	summary := fanout.Broadcast(episode)

	assert.Equal(t, Summary{Sent: 2, Failed: 1, Deactivated: 1}, summary)
	assert.Equal(t, []string{"100", "300"}, transport.sent)
	assert.Equal(t, []string{"200"}, store.deactivated)

	require.Len(t, operator.alerts, 1)
	assert.Contains(t, operator.alerts[0], "2 utenti notificati, 1 falliti")
	assert.Contains(t, operator.alerts[0], episode.Title)
}

func TestBroadcastSkipsDeactivatedOnNextRound(t *testing.T) {
	store := &fakeSubscriberStore{active: []string{"100", "200"}}
	transport := &fakeTransport{failing: map[string]error{"200": ErrRecipientGone}}
	operator := &captureOperator{}
	fanout := NewFanout(store, transport, operator)

	episode := models.Episode{EpisodeID: 1, Part: 1, Title: "1 Primo"}
	fanout.Broadcast(episode)

	transport.sent = nil
	summary := fanout.Broadcast(episode)

	assert.Equal(t, Summary{Sent: 1}, summary)
	assert.Equal(t, []string{"100"}, transport.sent)
}

func TestBroadcastTransientFailureDoesNotDeactivate(t *testing.T) {
	store := &fakeSubscriberStore{active: []string{"100", "200"}}
	transport := &fakeTransport{failing: map[string]error{"100": errors.New("timeout")}}
	fanout := NewFanout(store, transport, &captureOperator{})

	summary := fanout.Broadcast(models.Episode{EpisodeID: 2, Part: 1, Title: "2 Secondo"})

	assert.Equal(t, Summary{Sent: 1, Failed: 1}, summary)
	assert.Empty(t, store.deactivated)
}

func TestBroadcastStoreFailureAlertsOperator(t *testing.T) {
	store := &fakeSubscriberStore{listErr: errors.New("connection refused")}
	operator := &captureOperator{}
	fanout := NewFanout(store, &fakeTransport{}, operator)

	summary := fanout.Broadcast(models.Episode{EpisodeID: 3, Part: 1, Title: "3 Terzo"})

	assert.Equal(t, Summary{}, summary)
	require.Len(t, operator.alerts, 1)
	assert.Contains(t, operator.alerts[0], "Errore nel recupero degli iscritti")
}

func TestEpisodeButtons(t *testing.T) {
	t.Run("fully enriched", func(t *testing.T) {
		buttons := EpisodeButtons(models.Episode{
			AudioURL:     "https://open.spotify.com/episode/abc",
			ShownotesURL: "https://officeofcards.com/ospite/mario-rossi",
			Guest:        "Mario Rossi",
		})
		require.Len(t, buttons, 4)
		assert.Equal(t, "https://open.spotify.com/episode/abc", buttons[0].URL)
		assert.Equal(t, "https://officeofcards.com/ospite/mario-rossi", buttons[1].URL)
	})

	t.Run("unresolved shownotes omitted", func(t *testing.T) {
		buttons := EpisodeButtons(models.Episode{
			AudioURL:     "https://open.spotify.com/episode/abc",
			ShownotesURL: models.Unknown,
			Guest:        models.Unknown,
		})
		require.Len(t, buttons, 3)
		assert.Contains(t, buttons[1].Label, "Ko-Fi")
	})
}
