package db

import "ooc-bot/internal/models"

// Store adapts the package-level query functions to the interfaces the
// resolver, the ingestion pipeline and the notification fanout consume.
type Store struct{}

func (Store) MaxEpisodeID() (int, error)                        { return MaxEpisodeID() }
func (Store) LastEpisode() (*models.Episode, error)             { return LastEpisode() }
func (Store) EpisodesByID(id int) ([]models.Episode, error)     { return EpisodesByID(id) }
func (Store) EpisodeByIDAndPart(id, part int) (*models.Episode, error) {
	return EpisodeByIDAndPart(id, part)
}
func (Store) EpisodeByTitle(title string) (*models.Episode, error) { return EpisodeByTitle(title) }
func (Store) EpisodesByCategory(category string) ([]models.Episode, error) {
	return EpisodesByCategory(category)
}
func (Store) EpisodesByGuest(guest string) ([]models.Episode, error) { return EpisodesByGuest(guest) }
func (Store) Categories() ([]string, error)                          { return Categories() }
func (Store) Guests() ([]string, error)                              { return Guests() }
func (Store) RandomPill() (*models.Pill, error)                      { return RandomPill() }
func (Store) EpisodeExists(id, part int) (bool, error)               { return EpisodeExists(id, part) }
func (Store) PillExists(title string) (bool, error)                  { return PillExists(title) }
func (Store) InsertEpisode(episode models.Episode) (bool, error)     { return InsertEpisode(episode) }
func (Store) InsertPill(pill models.Pill) (bool, error)              { return InsertPill(pill) }
func (Store) UpdateEpisodeEnrichment(id, part int, guest, shownotesURL string) error {
	return UpdateEpisodeEnrichment(id, part, guest, shownotesURL)
}
func (Store) EpisodesMissingEnrichment() ([]models.Episode, error) {
	return EpisodesMissingEnrichment()
}
func (Store) AppendStat(chatID, query string) error    { return AppendStat(chatID, query) }
func (Store) AddSubscriber(chatID string) error        { return AddSubscriber(chatID) }
func (Store) DeactivateSubscriber(chatID string) error { return DeactivateSubscriber(chatID) }
func (Store) ActiveSubscribers() ([]string, error)     { return ActiveSubscribers() }
func (Store) ActiveSubscriberCount() (int, error)      { return ActiveSubscriberCount() }
func (Store) TotalEpisodes() (int, error)              { return TotalEpisodes() }
func (Store) TotalPills() (int, error)                 { return TotalPills() }
func (Store) TotalStats() (int, error)                 { return TotalStats() }
func (Store) TopQueries(limit int) ([]models.QueryCount, error) {
	return TopQueries(limit)
}
