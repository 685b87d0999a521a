package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ooc-bot/internal/feed"
	"ooc-bot/internal/models"
	"ooc-bot/internal/notify"
)

type fakeStore struct {
	existingEpisodes  map[[2]int]bool
	insertedEpisodes  []models.Episode
	episodeDuplicate  bool
	existingPills     map[string]bool
	insertedPills     []models.Pill
	pillDuplicate     bool
	missingEnrichment []models.Episode
	enrichmentUpdates []int
}

func (f *fakeStore) EpisodeExists(id, part int) (bool, error) {
	return f.existingEpisodes[[2]int{id, part}], nil
}

func (f *fakeStore) InsertEpisode(ep models.Episode) (bool, error) {
	if f.episodeDuplicate {
		return false, nil
	}
	f.insertedEpisodes = append(f.insertedEpisodes, ep)
	return true, nil
}

func (f *fakeStore) PillExists(title string) (bool, error) {
	return f.existingPills[title], nil
}

func (f *fakeStore) InsertPill(pill models.Pill) (bool, error) {
	if f.pillDuplicate {
		return false, nil
	}
	f.insertedPills = append(f.insertedPills, pill)
	return true, nil
}

func (f *fakeStore) EpisodesMissingEnrichment() ([]models.Episode, error) {
	return f.missingEnrichment, nil
}

func (f *fakeStore) UpdateEpisodeEnrichment(id, part int, guest, shownotesURL string) error {
	f.enrichmentUpdates = append(f.enrichmentUpdates, id)
	return nil
}

type fakeFeed struct {
	item *feed.Item
	err  error
}

func (f *fakeFeed) FetchLatest(ctx context.Context) (*feed.Item, error) {
	return f.item, f.err
}

type fakeEnricher struct {
	shownotesURL string
	guest        string
	err          error
	calls        int
}

func (f *fakeEnricher) GuestAndShownotes(ctx context.Context, episodeID int) (string, string, error) {
	f.calls++
	return f.shownotesURL, f.guest, f.err
}

type fakeBroadcaster struct {
	broadcasts []models.Episode
}

func (f *fakeBroadcaster) Broadcast(ep models.Episode) notify.Summary {
	f.broadcasts = append(f.broadcasts, ep)
	return notify.Summary{Sent: 2}
}

type fakeOperator struct {
	alerts []string
}

func (f *fakeOperator) Notify(text string) {
	f.alerts = append(f.alerts, text)
}

type fixture struct {
	store       *fakeStore
	episodeFeed *fakeFeed
	pillFeed    *fakeFeed
	enricher    *fakeEnricher
	broadcaster *fakeBroadcaster
	operator    *fakeOperator
	pipeline    *Pipeline
}

func newFixture() *fixture {
	f := &fixture{
		store: &fakeStore{
			existingEpisodes: map[[2]int]bool{},
			existingPills:    map[string]bool{},
		},
		episodeFeed: &fakeFeed{},
		pillFeed:    &fakeFeed{},
		enricher:    &fakeEnricher{shownotesURL: models.Unknown, guest: models.Unknown},
		broadcaster: &fakeBroadcaster{},
		operator:    &fakeOperator{},
	}
	f.pipeline = NewPipeline(f.store, f.episodeFeed, f.pillFeed, f.enricher, f.broadcaster, f.operator, time.Second)
	return f
}

func TestEpisodeCheckCommitsAndNotifies(t *testing.T) {
	f := newFixture()
	f.episodeFeed.item = &feed.Item{
		Title:       "Office of Cards - 143 Ospite speciale",
		Description: "Una bella chiacchierata",
		ExternalURL: "https://open.spotify.com/episode/abc",
	}
	f.enricher.shownotesURL = "https://officeofcards.com/ospite/mario-rossi"
	f.enricher.guest = "Mario Rossi"

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	require.Len(t, f.store.insertedEpisodes, 1)
	ep := f.store.insertedEpisodes[0]
	assert.Equal(t, 143, ep.EpisodeID)
	assert.Equal(t, 1, ep.Part)
	assert.Equal(t, "143 Ospite speciale", ep.Title)
	assert.Equal(t, models.CategoryInterview, ep.Category)
	assert.Equal(t, "Mario Rossi", ep.Guest)
	assert.Equal(t, "https://officeofcards.com/ospite/mario-rossi", ep.ShownotesURL)

	require.Len(t, f.broadcaster.broadcasts, 1)
	assert.Empty(t, f.operator.alerts)
}

func TestEpisodeCheckExistingShortCircuits(t *testing.T) {
	f := newFixture()
	f.episodeFeed.item = &feed.Item{Title: "143 Ospite speciale"}
	f.store.existingEpisodes[[2]int{143, 1}] = true

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateNoNewEpisode, result.State)

	assert.Zero(t, f.enricher.calls)
	assert.Empty(t, f.store.insertedEpisodes)
	assert.Empty(t, f.broadcaster.broadcasts)
}

func TestEpisodeCheckEnrichmentFailureStillCommits(t *testing.T) {
	f := newFixture()
	f.episodeFeed.item = &feed.Item{Title: "143 Ospite speciale"}
	f.enricher.err = context.DeadlineExceeded

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	require.Len(t, f.store.insertedEpisodes, 1)
	ep := f.store.insertedEpisodes[0]
	assert.Equal(t, models.Unknown, ep.Guest)
	assert.Equal(t, models.Unknown, ep.ShownotesURL)

	require.Len(t, f.operator.alerts, 1)
	assert.Contains(t, f.operator.alerts[0], "143")
	assert.Len(t, f.broadcaster.broadcasts, 1)
}

func TestEpisodeCheckDuplicateRaceIsNoNewEpisode(t *testing.T) {
	f := newFixture()
	f.episodeFeed.item = &feed.Item{Title: "143_2 Ospite speciale"}
	f.store.episodeDuplicate = true
	f.enricher.guest = "Mario Rossi"
	f.enricher.shownotesURL = "https://officeofcards.com/ospite/mario-rossi"

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateNoNewEpisode, result.State)
	assert.Empty(t, f.broadcaster.broadcasts)
}

func TestEpisodeCheckSkipsNonEpisodeItems(t *testing.T) {
	f := newFixture()
	f.episodeFeed.item = &feed.Item{Title: "Trailer di stagione"}

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateNoNewEpisode, result.State)
	assert.Empty(t, f.store.insertedEpisodes)
	assert.Empty(t, f.operator.alerts)
}

func TestEpisodeCheckFeedFailure(t *testing.T) {
	f := newFixture()
	f.episodeFeed.err = errors.New("connection refused")

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.Equal(t, StageFetch, result.Stage)
	assert.Len(t, f.operator.alerts, 1)
}

func TestEpisodeCheckEmptyFeed(t *testing.T) {
	f := newFixture()

	result, err := f.pipeline.RunEpisodeCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateNoNewEpisode, result.State)
}

func TestPillCheckCommitsWithOperatorAlertOnly(t *testing.T) {
	f := newFixture()
	f.pillFeed.item = &feed.Item{
		Title:       "La delega",
		Description: "Pillola tratta dall'episodio 118",
		ExternalURL: "https://open.spotify.com/episode/xyz",
	}

	result, err := f.pipeline.RunPillCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	require.Len(t, f.store.insertedPills, 1)
	pill := f.store.insertedPills[0]
	assert.Equal(t, "La delega", pill.Title)
	assert.Equal(t, 118, pill.EpisodeID)

	require.Len(t, f.operator.alerts, 1)
	assert.Contains(t, f.operator.alerts[0], "La delega")
	assert.Empty(t, f.broadcaster.broadcasts)
}

func TestPillCheckExistingIsNoNew(t *testing.T) {
	f := newFixture()
	f.pillFeed.item = &feed.Item{Title: "La delega"}
	f.store.existingPills["La delega"] = true

	result, err := f.pipeline.RunPillCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateNoNewEpisode, result.State)
	assert.Empty(t, f.store.insertedPills)
	assert.Empty(t, f.operator.alerts)
}

func TestBackfillEnrichmentUpdatesResolvedRows(t *testing.T) {
	f := newFixture()
	f.store.missingEnrichment = []models.Episode{
		{EpisodeID: 10, Part: 1, Guest: models.Unknown, ShownotesURL: models.Unknown},
		{EpisodeID: 11, Part: 1, Guest: models.Unknown, ShownotesURL: models.Unknown},
	}
	f.enricher.guest = "Anna Bianchi"
	f.enricher.shownotesURL = "https://officeofcards.com/ospite/anna-bianchi"

	filled, err := f.pipeline.BackfillEnrichment(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.Equal(t, []int{10, 11}, f.store.enrichmentUpdates)
}

func TestBackfillSkipsStillUnresolved(t *testing.T) {
	f := newFixture()
	f.store.missingEnrichment = []models.Episode{
		{EpisodeID: 10, Part: 1, Guest: models.Unknown, ShownotesURL: models.Unknown},
	}

	filled, err := f.pipeline.BackfillEnrichment(context.Background())
	require.NoError(t, err)
	assert.Zero(t, filled)
	assert.Empty(t, f.store.enrichmentUpdates)
}
