package db

import "ooc-bot/internal/models"

// AppendStat records one usage entry. The stats table is append-only.
func AppendStat(chatID, query string) error {
	_, err := DB.Exec("INSERT INTO stats (chat_id, query) VALUES ($1, $2)", chatID, query)
	return err
}

func TotalStats() (int, error) {
	var count int
	err := DB.Get(&count, "SELECT COUNT(*) FROM stats")
	return count, err
}

// TopQueries returns the most frequent query labels for the admin surface.
func TopQueries(limit int) ([]models.QueryCount, error) {
	var rows []models.QueryCount
	err := DB.Select(&rows,
		"SELECT query, COUNT(*) AS count FROM stats GROUP BY query ORDER BY count DESC LIMIT $1", limit)
	return rows, err
}
