package ingest

import (
	"errors"
	"strconv"
	"strings"

	"ooc-bot/internal/models"
)

// ErrNotEpisode marks a feed item whose title carries no leading episode
// number. Trailers and announcements do this occasionally; they are logged
// and skipped, never ingested.
var ErrNotEpisode = errors.New("title has no leading episode number")

const showPrefix = "Office of Cards -"

// NormalizeTitle strips the show-name prefix the feed prepends to every item.
func NormalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if strings.HasPrefix(title, showPrefix) {
		title = strings.TrimSpace(strings.TrimPrefix(title, showPrefix))
	}
	return title
}

// ParseEpisodeNumber extracts episode number and part from a normalized
// title. The convention is "<id>[_<part>] <free text>"; part defaults to 1.
func ParseEpisodeNumber(title string) (episodeID, part int, err error) {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return 0, 0, ErrNotEpisode
	}

	token := strings.SplitN(fields[0], "_", 2)
	episodeID, err = strconv.Atoi(token[0])
	if err != nil || episodeID < 0 {
		return 0, 0, ErrNotEpisode
	}

	part = 1
	if len(token) > 1 {
		if p, err := strconv.Atoi(token[1]); err == nil && p >= 1 {
			part = p
		}
	}
	return episodeID, part, nil
}

// DeriveCategory maps a title to its category: a bracketed [TAG] wins, a few
// historical episode numbers are hardcoded, everything else is an interview.
// Episodes 0, 3 and 31 predate the bracket convention; they are kept as
// documented special cases.
func DeriveCategory(title string, episodeID int) string {
	switch episodeID {
	case 0:
		return models.CategoryIntro
	case 3, 31:
		return models.CategoryQA
	}

	start := strings.Index(title, "[")
	end := strings.Index(title, "]")
	if start != -1 && end > start {
		if tag := strings.TrimSpace(title[start+1 : end]); tag != "" {
			return tag
		}
	}

	return models.CategoryInterview
}

// PillEpisodeID extracts the linked episode number from a pill description:
// the first integer token wins, 0 when there is none. Best-effort by design.
func PillEpisodeID(description string) int {
	for _, word := range strings.Fields(description) {
		if id, err := strconv.Atoi(word); err == nil {
			return id
		}
	}
	return 0
}
