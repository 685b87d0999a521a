package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"ooc-bot/internal/models"
)

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "143 Ospite speciale", NormalizeTitle("Office of Cards - 143 Ospite speciale"))
	assert.Equal(t, "143 Ospite speciale", NormalizeTitle("  143 Ospite speciale "))
}

func TestParseEpisodeNumber(t *testing.T) {
	tests := []struct {
		title   string
		id      int
		part    int
		wantErr bool
	}{
		{"143 Ospite speciale", 143, 1, false},
		{"143_2 Ospite speciale", 143, 2, false},
		{"0 Benvenuti", 0, 1, false},
		{"143_x Ospite speciale", 143, 1, false}, // malformed part defaults to 1
		{"Trailer di stagione", 0, 0, true},
		{"", 0, 0, true},
		{"-3 Strano", 0, 0, true},
	}

	for _, tt := range tests {
		id, part, err := ParseEpisodeNumber(tt.title)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNotEpisode, "title %q", tt.title)
			continue
		}
		assert.NoError(t, err, "title %q", tt.title)
		assert.Equal(t, tt.id, id, "title %q", tt.title)
		assert.Equal(t, tt.part, part, "title %q", tt.title)
	}
}

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		title string
		id    int
		want  string
	}{
		{"0 Benvenuti", 0, models.CategoryIntro},
		{"3 Domande e risposte", 3, models.CategoryQA},
		{"31 Ancora domande", 31, models.CategoryQA},
		{"12 [LIBRO] Un libro al mese", 12, models.CategoryBook},
		{"15 [OFFICE EXTRAS] Dietro le quinte", 15, "OFFICE EXTRAS"},
		{"20 Chiacchierata con ospite", 20, models.CategoryInterview},
		{"21 Parentesi [] vuote", 21, models.CategoryInterview},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveCategory(tt.title, tt.id), "title %q", tt.title)
	}
}

func TestPillEpisodeID(t *testing.T) {
	assert.Equal(t, 118, PillEpisodeID("Una pillola tratta dall'episodio 118 con ospite"))
	assert.Equal(t, 0, PillEpisodeID("Nessun riferimento a episodi"))
	assert.Equal(t, 0, PillEpisodeID(""))
}
