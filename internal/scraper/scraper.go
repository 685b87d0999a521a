package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"ooc-bot/internal/models"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Scraper looks up guest name and shownotes URL on the companion website.
// The guest page lists one container per published episode, newest first.
type Scraper struct {
	client  *http.Client
	pageURL string
}

func New(pageURL string, timeout time.Duration) *Scraper {
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		pageURL: pageURL,
	}
}

// GuestAndShownotes returns (shownotesURL, guest) for an episode. Both fields
// degrade to the unknown sentinel when the episode is not listed yet; a
// non-nil error means the site itself was unreachable.
func (s *Scraper) GuestAndShownotes(ctx context.Context, episodeID int) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL, nil)
	if err != nil {
		return models.Unknown, models.Unknown, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return models.Unknown, models.Unknown, fmt.Errorf("fetch guest page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Unknown, models.Unknown, fmt.Errorf("guest page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.Unknown, models.Unknown, fmt.Errorf("parse guest page: %w", err)
	}

	containers := doc.Find("div.container-overlay")
	if containers.Length() == 0 {
		log.Println("No episode containers found on guest page")
		return models.Unknown, models.Unknown, nil
	}

	// The first container is the latest published episode. Anything newer
	// than that simply isn't on the site yet.
	if latestID, ok := containerEpisodeID(containers.First()); ok && episodeID > latestID {
		log.Printf("Episode %d not yet published on guest page", episodeID)
		return models.Unknown, models.Unknown, nil
	}

	shownotesURL, guest := models.Unknown, models.Unknown
	containers.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		id, ok := containerEpisodeID(sel)
		if !ok || id != episodeID {
			return true
		}
		if href, exists := sel.Find("a").First().Attr("href"); exists && href != "" {
			shownotesURL = href
		}
		spans := sel.Find("span")
		if spans.Length() > 1 {
			if name := strings.TrimSpace(spans.Eq(1).Text()); name != "" {
				guest = name
			}
		}
		return false
	})

	if guest == models.Unknown {
		log.Printf("Episode %d not found on guest page", episodeID)
	}
	return shownotesURL, guest, nil
}

// containerEpisodeID parses the episode number from a container's first span,
// which reads like "Episodio 123".
func containerEpisodeID(sel *goquery.Selection) (int, bool) {
	text := strings.TrimSpace(sel.Find("span").First().Text())
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(words[len(words)-1])
	if err != nil {
		return 0, false
	}
	return id, true
}
