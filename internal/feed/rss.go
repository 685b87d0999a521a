package feed

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/eduncan911/podcast"
	"ooc-bot/internal/models"
)

func getBaseURL(r *http.Request) string {
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		return baseURL
	}

	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if r.Header.Get("X-Forwarded-Proto") != "" {
			scheme = r.Header.Get("X-Forwarded-Proto")
		}
	}

	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS republishes the stored catalog as a podcast RSS feed.
func GenerateRSS(showName string, episodes []models.Episode, r *http.Request) (string, error) {
	baseURL := getBaseURL(r)

	p := podcast.New(
		showName,
		fmt.Sprintf("%s/feed.rss", baseURL),
		fmt.Sprintf("Catalogo episodi di %s.", showName),
		&time.Time{}, &time.Time{},
	)

	for _, episode := range episodes {
		pubDate := episode.CreatedAt
		item := podcast.Item{
			Title:       episode.Title,
			Description: episode.Description,
			Link:        episode.AudioURL,
			PubDate:     &pubDate,
		}
		if item.Description == "" {
			item.Description = episode.Title
		}
		if episode.HasShownotes() {
			item.Link = episode.ShownotesURL
		}
		if item.Link == "" {
			item.Link = baseURL
		}
		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("add item %q: %w", episode.Title, err)
		}
	}

	return p.String(), nil
}
