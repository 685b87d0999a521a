package db

import (
	"database/sql"
	"errors"

	"ooc-bot/internal/models"
)

// RandomPill returns a uniformly random pill, nil when none are stored.
func RandomPill() (*models.Pill, error) {
	pill := models.Pill{}
	err := DB.Get(&pill, "SELECT * FROM pills ORDER BY RANDOM() LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pill, nil
}

// PillExists is the novelty check for the pill ingestion path.
func PillExists(title string) (bool, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM pills WHERE title = $1", title)
	return count > 0, err
}

// InsertPill stores a new pill. Returns false when the title is already
// present; duplicates are resolved atomically in the database.
func InsertPill(pill models.Pill) (bool, error) {
	result, err := DB.Exec(`
		INSERT INTO pills (episode_id, title, description, audio_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (title) DO NOTHING`,
		pill.EpisodeID, pill.Title, pill.Description, pill.AudioURL)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func TotalPills() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM pills")
	return count, err
}
