package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ooc-bot/internal/models"
)

// Store is the read surface of the catalog the resolver works against.
type Store interface {
	MaxEpisodeID() (int, error)
	EpisodesByID(episodeID int) ([]models.Episode, error)
	EpisodeByIDAndPart(episodeID, part int) (*models.Episode, error)
	EpisodeByTitle(title string) (*models.Episode, error)
	EpisodesByGuest(guest string) ([]models.Episode, error)
	EpisodesByCategory(category string) ([]models.Episode, error)
	Categories() ([]string, error)
	Guests() ([]string, error)
}

// Kind classifies a resolution outcome.
type Kind int

const (
	// KindNotFound means no strategy matched; Guidance carries the text to
	// show the user.
	KindNotFound Kind = iota
	// KindEpisode is an exact hit; Episode is set.
	KindEpisode
	// KindDisambiguation means several episodes matched; Options carries one
	// entry per candidate, each with a query that resolves it exactly.
	KindDisambiguation
	// KindGuestSelection is the INTERVISTA special case: the user picked the
	// interview category, which spans many guests, so Options lists guest
	// names instead of episodes.
	KindGuestSelection
)

// Option is one entry of a disambiguation set. Query is a text query that,
// fed back into Resolve, yields the candidate directly.
type Option struct {
	Label string
	Query string
}

// Resolution is the typed outcome of resolving one user query.
type Resolution struct {
	Kind     Kind
	Strategy string // which strategy decided: number, title, guest, category
	Term     string // the matched value, for usage-stat labels
	Episode  *models.Episode
	Options  []Option
	Guidance string
}

// Resolver turns free-form user text into a catalog lookup outcome. It never
// mutates anything; recording the query in the stats log is the caller's job.
type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Queries like "143" address an episode number, "143_2" one specific part.
var numberPattern = regexp.MustCompile(`^(\d+)(?:_(\d+))?$`)

type strategy struct {
	name string
	run  func(text string) (*Resolution, error)
}

// Resolve tries each strategy in fixed precedence order and stops at the
// first that yields a decision. A query that is both a valid number and a
// valid guest name resolves as a number; that precedence is deliberate.
func (r *Resolver) Resolve(text string) (Resolution, error) {
	text = strings.TrimSpace(text)

	strategies := []strategy{
		{"number", r.byNumber},
		{"title", r.byTitle},
		{"guest", r.byGuest},
		{"category", r.byCategory},
	}

	for _, s := range strategies {
		res, err := s.run(text)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolve %q via %s: %w", text, s.name, err)
		}
		if res != nil {
			res.Strategy = s.name
			return *res, nil
		}
	}

	return r.notFound()
}

func (r *Resolver) byNumber(text string) (*Resolution, error) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, nil
	}
	episodeID, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, nil
	}

	if m[2] != "" {
		// Part selection, typically re-issued from a disambiguation set.
		part, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, nil
		}
		episode, err := r.store.EpisodeByIDAndPart(episodeID, part)
		if err != nil {
			return nil, err
		}
		if episode == nil {
			res, err := r.notFound()
			return &res, err
		}
		return &Resolution{Kind: KindEpisode, Term: text, Episode: episode}, nil
	}

	episodes, err := r.store.EpisodesByID(episodeID)
	if err != nil {
		return nil, err
	}
	switch len(episodes) {
	case 0:
		res, err := r.notFound()
		return &res, err
	case 1:
		return &Resolution{Kind: KindEpisode, Term: text, Episode: &episodes[0]}, nil
	default:
		options := make([]Option, 0, len(episodes))
		for _, ep := range episodes {
			options = append(options, Option{
				Label: fmt.Sprintf("Parte %d", ep.Part),
				Query: fmt.Sprintf("%d_%d", ep.EpisodeID, ep.Part),
			})
		}
		return &Resolution{Kind: KindDisambiguation, Term: text, Options: options}, nil
	}
}

func (r *Resolver) byTitle(text string) (*Resolution, error) {
	episode, err := r.store.EpisodeByTitle(text)
	if err != nil {
		return nil, err
	}
	if episode == nil {
		return nil, nil
	}
	return &Resolution{Kind: KindEpisode, Term: text, Episode: episode}, nil
}

func (r *Resolver) byGuest(text string) (*Resolution, error) {
	episodes, err := r.store.EpisodesByGuest(text)
	if err != nil {
		return nil, err
	}
	switch len(episodes) {
	case 0:
		return nil, nil
	case 1:
		return &Resolution{Kind: KindEpisode, Term: episodes[0].Guest, Episode: &episodes[0]}, nil
	default:
		return &Resolution{
			Kind:    KindDisambiguation,
			Term:    episodes[0].Guest,
			Options: titleOptions(episodes),
		}, nil
	}
}

func (r *Resolver) byCategory(text string) (*Resolution, error) {
	categories, err := r.store.Categories()
	if err != nil {
		return nil, err
	}
	if !contains(categories, text) {
		return nil, nil
	}

	// INTERVISTA spans many guests, so selecting it narrows by guest first
	// instead of listing every interview episode.
	if text == models.CategoryInterview {
		guests, err := r.store.Guests()
		if err != nil {
			return nil, err
		}
		options := make([]Option, 0, len(guests))
		for _, guest := range guests {
			options = append(options, Option{Label: guest, Query: guest})
		}
		return &Resolution{Kind: KindGuestSelection, Term: text, Options: options}, nil
	}

	episodes, err := r.store.EpisodesByCategory(text)
	if err != nil {
		return nil, err
	}
	switch len(episodes) {
	case 0:
		res, err := r.notFound()
		return &res, err
	case 1:
		return &Resolution{Kind: KindEpisode, Term: text, Episode: &episodes[0]}, nil
	default:
		return &Resolution{
			Kind:    KindDisambiguation,
			Term:    text,
			Options: titleOptions(episodes),
		}, nil
	}
}

func (r *Resolver) notFound() (Resolution, error) {
	maxID, err := r.store.MaxEpisodeID()
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{
		Kind: KindNotFound,
		Guidance: fmt.Sprintf(
			"Non ho trovato quello che cerchi.\n\nSeleziona una scelta dal menù, scrivi il nome di un ospite, o un numero da 0 a %d.",
			maxID),
	}, nil
}

func titleOptions(episodes []models.Episode) []Option {
	options := make([]Option, 0, len(episodes))
	for _, ep := range episodes {
		options = append(options, Option{Label: ep.Title, Query: ep.Title})
	}
	return options
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
