package models

import "time"

// Pill is a short bonus clip from the companion "pills" show. EpisodeID is a
// best-effort link to the full episode it comments on, parsed from free text;
// 0 when no link could be parsed.
type Pill struct {
	ID          int       `db:"id"`
	EpisodeID   int       `db:"episode_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	AudioURL    string    `db:"audio_url"`
	CreatedAt   time.Time `db:"created_at"`
}
