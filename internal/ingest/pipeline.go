package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ooc-bot/internal/feed"
	"ooc-bot/internal/models"
	"ooc-bot/internal/notify"
)

// State is the terminal outcome of one ingestion cycle.
type State string

const (
	// StateNoNewEpisode: the latest feed item is already stored (or the feed
	// is empty, or the item is not an episode at all).
	StateNoNewEpisode State = "no_new_episode"
	// StateCommitted: a new row was stored this cycle.
	StateCommitted State = "committed"
	// StateFailed: the cycle aborted; Stage names where. The periodic
	// schedule is the retry mechanism, so a failed cycle just waits for the
	// next tick.
	StateFailed State = "failed"
	// StateSkipped: a previous cycle for the same job was still in flight.
	StateSkipped State = "skipped"
)

// Stage names the pipeline step a failed cycle died in.
type Stage string

const (
	StageFetch   Stage = "fetch"
	StageNovelty Stage = "novelty"
	StageCommit  Stage = "commit"
)

// Result reports one cycle.
type Result struct {
	State   State
	Stage   Stage
	Episode *models.Episode
	Pill    *models.Pill
}

// Store is the write-side storage surface the pipeline uses.
type Store interface {
	EpisodeExists(episodeID, part int) (bool, error)
	InsertEpisode(episode models.Episode) (bool, error)
	PillExists(title string) (bool, error)
	InsertPill(pill models.Pill) (bool, error)
	EpisodesMissingEnrichment() ([]models.Episode, error)
	UpdateEpisodeEnrichment(episodeID, part int, guest, shownotesURL string) error
}

// FeedClient fetches the single most recent item of an upstream feed.
type FeedClient interface {
	FetchLatest(ctx context.Context) (*feed.Item, error)
}

// Enricher looks up (shownotesURL, guest) for an episode number.
type Enricher interface {
	GuestAndShownotes(ctx context.Context, episodeID int) (string, string, error)
}

// Broadcaster announces a committed episode to subscribers.
type Broadcaster interface {
	Broadcast(episode models.Episode) notify.Summary
}

// Pipeline runs the periodic episode and pill ingestion cycles. Each job is
// single-flight: a cycle that finds its predecessor still running skips.
type Pipeline struct {
	store       Store
	episodeFeed FeedClient
	pillFeed    FeedClient
	enricher    Enricher
	broadcaster Broadcaster
	operator    notify.Operator
	timeout     time.Duration

	episodeMu sync.Mutex
	pillMu    sync.Mutex
}

func NewPipeline(store Store, episodeFeed, pillFeed FeedClient, enricher Enricher, broadcaster Broadcaster, operator notify.Operator, timeout time.Duration) *Pipeline {
	return &Pipeline{
		store:       store,
		episodeFeed: episodeFeed,
		pillFeed:    pillFeed,
		enricher:    enricher,
		broadcaster: broadcaster,
		operator:    operator,
		timeout:     timeout,
	}
}

// RunEpisodeCheck runs one Fetch -> CheckNovelty -> Enrich -> Commit ->
// Notify cycle. Enrichment is best-effort: a partially enriched episode is
// still committed, with one operator alert so a human can backfill.
func (p *Pipeline) RunEpisodeCheck(ctx context.Context) (Result, error) {
	if !p.episodeMu.TryLock() {
		log.Println("Episode check already in flight, skipping")
		return Result{State: StateSkipped}, nil
	}
	defer p.episodeMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	item, err := p.episodeFeed.FetchLatest(ctx)
	if err != nil {
		p.operator.Notify(fmt.Sprintf("Errore nel check episodi: %v", err))
		return Result{State: StateFailed, Stage: StageFetch}, fmt.Errorf("fetch latest episode: %w", err)
	}
	if item == nil {
		log.Println("Episode feed is empty")
		return Result{State: StateNoNewEpisode}, nil
	}

	title := NormalizeTitle(item.Title)
	episodeID, part, err := ParseEpisodeNumber(title)
	if errors.Is(err, ErrNotEpisode) {
		// Expected for trailers and announcements; not worth an alert.
		log.Printf("Feed item %q is not an episode, skipping", item.Title)
		return Result{State: StateNoNewEpisode}, nil
	}

	exists, err := p.store.EpisodeExists(episodeID, part)
	if err != nil {
		return Result{State: StateFailed, Stage: StageNovelty}, fmt.Errorf("novelty check %d_%d: %w", episodeID, part, err)
	}
	if exists {
		log.Printf("Episode %d part %d already stored, nothing to do", episodeID, part)
		return Result{State: StateNoNewEpisode}, nil
	}

	episode := models.Episode{
		EpisodeID:    episodeID,
		Part:         part,
		Title:        title,
		Description:  item.Description,
		Category:     DeriveCategory(title, episodeID),
		Guest:        models.Unknown,
		ShownotesURL: models.Unknown,
		AudioURL:     item.ExternalURL,
	}
	p.enrich(ctx, &episode)

	inserted, err := p.store.InsertEpisode(episode)
	if err != nil {
		return Result{State: StateFailed, Stage: StageCommit}, fmt.Errorf("insert episode %d_%d: %w", episodeID, part, err)
	}
	if !inserted {
		// A concurrent cycle won the race; their commit notified already.
		log.Printf("Episode %d part %d inserted by a concurrent cycle", episodeID, part)
		return Result{State: StateNoNewEpisode}, nil
	}

	log.Printf("New episode committed: %s", episode.Title)
	summary := p.broadcaster.Broadcast(episode)
	log.Printf("Episode notification complete: %d sent, %d failed", summary.Sent, summary.Failed)

	return Result{State: StateCommitted, Episode: &episode}, nil
}

// enrich fills guest and shownotes in place. Failure degrades the fields to
// the unknown sentinel and raises exactly one operator alert.
func (p *Pipeline) enrich(ctx context.Context, episode *models.Episode) {
	shownotesURL, guest, err := p.enricher.GuestAndShownotes(ctx, episode.EpisodeID)
	if err != nil {
		log.Printf("Enrichment failed for episode %d: %v", episode.EpisodeID, err)
	} else {
		episode.ShownotesURL = shownotesURL
		episode.Guest = guest
	}

	if episode.Guest == models.Unknown || episode.ShownotesURL == models.Unknown {
		p.operator.Notify(fmt.Sprintf(
			"Metadati incompleti per l'episodio %d: ospite/shownotes da inserire a mano",
			episode.EpisodeID))
	}
}

// RunPillCheck runs the pill cycle: same shape as the episode cycle but with
// no enrichment and no subscriber broadcast, only an operator alert.
func (p *Pipeline) RunPillCheck(ctx context.Context) (Result, error) {
	if !p.pillMu.TryLock() {
		log.Println("Pill check already in flight, skipping")
		return Result{State: StateSkipped}, nil
	}
	defer p.pillMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	item, err := p.pillFeed.FetchLatest(ctx)
	if err != nil {
		p.operator.Notify(fmt.Sprintf("Errore nel check pillole: %v", err))
		return Result{State: StateFailed, Stage: StageFetch}, fmt.Errorf("fetch latest pill: %w", err)
	}
	if item == nil {
		log.Println("Pill feed is empty")
		return Result{State: StateNoNewEpisode}, nil
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		log.Println("Pill feed item has no title, skipping")
		return Result{State: StateNoNewEpisode}, nil
	}

	exists, err := p.store.PillExists(title)
	if err != nil {
		return Result{State: StateFailed, Stage: StageNovelty}, fmt.Errorf("pill novelty check %q: %w", title, err)
	}
	if exists {
		log.Println("No new pill found")
		return Result{State: StateNoNewEpisode}, nil
	}

	pill := models.Pill{
		EpisodeID:   PillEpisodeID(item.Description),
		Title:       title,
		Description: item.Description,
		AudioURL:    item.ExternalURL,
	}

	inserted, err := p.store.InsertPill(pill)
	if err != nil {
		return Result{State: StateFailed, Stage: StageCommit}, fmt.Errorf("insert pill %q: %w", title, err)
	}
	if !inserted {
		log.Printf("Pill %q inserted by a concurrent cycle", title)
		return Result{State: StateNoNewEpisode}, nil
	}

	log.Printf("New pill committed: %s", title)
	p.operator.Notify(fmt.Sprintf("Nuova pillola aggiunta: %s", title))

	return Result{State: StateCommitted, Pill: &pill}, nil
}

// BackfillEnrichment retries enrichment for episodes whose guest or
// shownotes are still unresolved. Returns how many rows were filled.
func (p *Pipeline) BackfillEnrichment(ctx context.Context) (int, error) {
	episodes, err := p.store.EpisodesMissingEnrichment()
	if err != nil {
		return 0, fmt.Errorf("list episodes missing enrichment: %w", err)
	}

	filled := 0
	for _, episode := range episodes {
		shownotesURL, guest, err := p.enricher.GuestAndShownotes(ctx, episode.EpisodeID)
		if err != nil {
			return filled, fmt.Errorf("enrich episode %d: %w", episode.EpisodeID, err)
		}
		if guest == models.Unknown && shownotesURL == models.Unknown {
			continue
		}
		if err := p.store.UpdateEpisodeEnrichment(episode.EpisodeID, episode.Part, guest, shownotesURL); err != nil {
			return filled, fmt.Errorf("update episode %d_%d: %w", episode.EpisodeID, episode.Part, err)
		}
		filled++
	}
	return filled, nil
}
