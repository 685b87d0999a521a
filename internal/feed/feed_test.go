package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Office of Cards</title>
    <item>
      <title>142 Penultimo episodio</title>
      <description>Descrizione 142</description>
      <link>https://open.spotify.com/episode/old</link>
      <pubDate>Mon, 17 Aug 2026 05:00:00 +0000</pubDate>
    </item>
    <item>
      <title>143 Ospite speciale</title>
      <description>Descrizione 143</description>
      <link>https://open.spotify.com/episode/new</link>
      <pubDate>Mon, 24 Aug 2026 05:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const emptyFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Office of Cards</title></channel></rss>`

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchLatestPicksNewestByDate(t *testing.T) {
	server := serveFeed(t, feedFixture)
	client := NewClient(server.URL)

	item, err := client.FetchLatest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "143 Ospite speciale", item.Title)
	assert.Equal(t, "Descrizione 143", item.Description)
	assert.Equal(t, "https://open.spotify.com/episode/new", item.ExternalURL)
	assert.Equal(t, 2026, item.ReleaseDate.Year())
}

func TestFetchLatestEmptyFeed(t *testing.T) {
	server := serveFeed(t, emptyFeedFixture)
	client := NewClient(server.URL)

	item, err := client.FetchLatest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestFetchLatestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	client := NewClient(server.URL)

	_, err := client.FetchLatest(context.Background())
	assert.Error(t, err)
}

func TestFetchLatestPrefersEnclosureWhenLinkMissing(t *testing.T) {
	const fixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Office of Cards</title>
    <item>
      <title>La delega</title>
      <description>Pillola tratta dall'episodio 118</description>
      <enclosure url="https://cdn.example.com/pill.mp3" length="1" type="audio/mpeg"/>
      <pubDate>Mon, 24 Aug 2026 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`
	server := serveFeed(t, fixture)
	client := NewClient(server.URL)

	item, err := client.FetchLatest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "https://cdn.example.com/pill.mp3", item.ExternalURL)
}
