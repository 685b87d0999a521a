package db

import (
	"database/sql"
	"errors"

	"ooc-bot/internal/models"
)

// MaxEpisodeID returns the highest stored episode number, 0 when the catalog
// is empty.
func MaxEpisodeID() (int, error) {
	var max int
	err := DB.Get(&max, "SELECT COALESCE(MAX(episode_id), 0) FROM episodes")
	return max, err
}

// LastEpisode returns the episode with the highest episode number, tie-broken
// by the highest part. Returns nil when the catalog is empty.
func LastEpisode() (*models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes ORDER BY episode_id DESC, part DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// EpisodesByID returns every part of an episode number, ordered by part.
func EpisodesByID(episodeID int) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE episode_id = $1 ORDER BY part", episodeID)
	return episodes, err
}

// EpisodeByIDAndPart returns one specific part, nil when absent.
func EpisodeByIDAndPart(episodeID, part int) (*models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE episode_id = $1 AND part = $2", episodeID, part)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

// EpisodeByTitle returns the episode with this exact title (case-sensitive),
// nil when absent.
func EpisodeByTitle(title string) (*models.Episode, error) {
	episode := models.Episode{}
	err := DB.Get(&episode, "SELECT * FROM episodes WHERE title = $1", title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func EpisodesByCategory(category string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE category = $1 ORDER BY episode_id, part", category)
	return episodes, err
}

// EpisodesByGuest matches the guest name case-insensitively.
func EpisodesByGuest(guest string) ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes WHERE LOWER(guest) = LOWER($1) ORDER BY episode_id, part", guest)
	return episodes, err
}

// AllEpisodes returns the whole catalog, newest first.
func AllEpisodes() ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes, "SELECT * FROM episodes ORDER BY episode_id DESC, part DESC")
	return episodes, err
}

// Categories returns the distinct non-empty categories, sorted.
func Categories() ([]string, error) {
	var categories []string
	err := DB.Select(&categories, "SELECT DISTINCT category FROM episodes WHERE category != '' ORDER BY category")
	return categories, err
}

// Guests returns the distinct guest names, excluding the unresolved sentinel.
func Guests() ([]string, error) {
	var guests []string
	err := DB.Select(&guests, "SELECT DISTINCT guest FROM episodes WHERE guest != '' AND guest != $1 ORDER BY guest", models.Unknown)
	return guests, err
}

// EpisodeExists is the novelty check for the ingestion pipeline. It always
// hits durable state so restarts cannot produce stale answers.
func EpisodeExists(episodeID, part int) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM episodes WHERE episode_id = $1 AND part = $2", episodeID, part)
	return count > 0, err
}

// InsertEpisode stores a new episode. Returns false when (episode_id, part)
// is already present; the conflict is resolved atomically in the database so
// concurrent ingestions cannot double-insert.
func InsertEpisode(episode models.Episode) (bool, error) {
	result, err := DB.Exec(`
		INSERT INTO episodes (episode_id, part, title, description, category, guest, audio_url, shownotes_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (episode_id, part) DO NOTHING`,
		episode.EpisodeID, episode.Part, episode.Title, episode.Description,
		episode.Category, episode.Guest, episode.AudioURL, episode.ShownotesURL)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// UpdateEpisodeEnrichment fills in guest and shownotes after the fact. Used
// by the backfill path when enrichment failed at ingestion time.
func UpdateEpisodeEnrichment(episodeID, part int, guest, shownotesURL string) error {
	_, err := DB.Exec(
		"UPDATE episodes SET guest = $1, shownotes_url = $2 WHERE episode_id = $3 AND part = $4",
		guest, shownotesURL, episodeID, part)
	return err
}

// EpisodesMissingEnrichment returns episodes whose guest is still the
// unresolved sentinel, oldest first.
func EpisodesMissingEnrichment() ([]models.Episode, error) {
	var episodes []models.Episode
	err := DB.Select(&episodes,
		"SELECT * FROM episodes WHERE guest = $1 OR shownotes_url = $1 ORDER BY episode_id, part", models.Unknown)
	return episodes, err
}

func TotalEpisodes() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM episodes")
	return count, err
}
