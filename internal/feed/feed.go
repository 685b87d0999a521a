package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// Item is the single most recent entry of an upstream podcast feed.
type Item struct {
	Title       string
	Description string
	ExternalURL string
	ReleaseDate time.Time
}

// Client fetches the latest item from one RSS/Atom feed.
type Client struct {
	parser  *gofeed.Parser
	feedURL string
}

func NewClient(feedURL string) *Client {
	return &Client{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// FetchLatest returns the most recently published item, or nil when the feed
// is empty. The context bounds the whole fetch.
func (c *Client) FetchLatest(ctx context.Context) (*Item, error) {
	parsed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", c.feedURL, err)
	}
	if len(parsed.Items) == 0 {
		return nil, nil
	}

	// Feeds usually list newest first, but don't rely on it.
	latest := parsed.Items[0]
	for _, item := range parsed.Items[1:] {
		if publishedAt(item).After(publishedAt(latest)) {
			latest = item
		}
	}

	return &Item{
		Title:       latest.Title,
		Description: latest.Description,
		ExternalURL: itemURL(latest),
		ReleaseDate: publishedAt(latest),
	}, nil
}

func publishedAt(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	return time.Time{}
}

func itemURL(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}
	if len(item.Enclosures) > 0 {
		return item.Enclosures[0].URL
	}
	return ""
}
