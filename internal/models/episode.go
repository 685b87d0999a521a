package models

import "time"

// Unknown is the placeholder stored in optional fields (guest, shownotes)
// that enrichment has not resolved yet.
const Unknown = "unknown"

// Episode categories. Anything else is a free-form bracketed tag taken
// verbatim from the title.
const (
	CategoryIntro     = "INTRO"
	CategoryQA        = "Q&A"
	CategoryInterview = "INTERVISTA"
	CategoryBook      = "LIBRO"
)

// Episode is one released part of a podcast episode. The catalog key is
// (EpisodeID, Part): an episode number may be split across several parts.
type Episode struct {
	ID           int       `db:"id"`
	EpisodeID    int       `db:"episode_id"`
	Part         int       `db:"part"`
	Title        string    `db:"title"`
	Description  string    `db:"description"`
	Category     string    `db:"category"`
	Guest        string    `db:"guest"`
	AudioURL     string    `db:"audio_url"`
	ShownotesURL string    `db:"shownotes_url"`
	CreatedAt    time.Time `db:"created_at"`
}

// HasGuest reports whether enrichment resolved a guest name.
func (e *Episode) HasGuest() bool {
	return e.Guest != "" && e.Guest != Unknown
}

// HasShownotes reports whether enrichment resolved a shownotes URL.
func (e *Episode) HasShownotes() bool {
	return e.ShownotesURL != "" && e.ShownotesURL != Unknown
}
