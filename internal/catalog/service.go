package catalog

import (
	"fmt"

	"ooc-bot/internal/models"
)

// ServiceStore is everything the chat and admin surfaces need from storage.
type ServiceStore interface {
	Store
	LastEpisode() (*models.Episode, error)
	RandomPill() (*models.Pill, error)
	AppendStat(chatID, query string) error
	AddSubscriber(chatID string) error
	ActiveSubscribers() ([]string, error)
	ActiveSubscriberCount() (int, error)
	TotalEpisodes() (int, error)
	TotalPills() (int, error)
	TotalStats() (int, error)
	TopQueries(limit int) ([]models.QueryCount, error)
}

// Service is the catalog facade the chat layer talks to: query resolution
// plus the direct passthroughs used for menu rendering and admin stats.
type Service struct {
	store    ServiceStore
	resolver *Resolver
}

func NewService(store ServiceStore) *Service {
	return &Service{store: store, resolver: NewResolver(store)}
}

func (s *Service) Resolve(text string) (Resolution, error) {
	return s.resolver.Resolve(text)
}

func (s *Service) LastEpisode() (*models.Episode, error) { return s.store.LastEpisode() }
func (s *Service) RandomPill() (*models.Pill, error)     { return s.store.RandomPill() }
func (s *Service) Categories() ([]string, error)         { return s.store.Categories() }
func (s *Service) Guests() ([]string, error)             { return s.store.Guests() }
func (s *Service) MaxEpisodeID() (int, error)            { return s.store.MaxEpisodeID() }

// RecordQuery appends one usage-stat entry. Resolution itself never logs;
// the caller decides what label a query gets.
func (s *Service) RecordQuery(chatID, label string) error {
	return s.store.AppendStat(chatID, label)
}

func (s *Service) RegisterSubscriber(chatID string) error {
	return s.store.AddSubscriber(chatID)
}

func (s *Service) ActiveSubscriberCount() (int, error) {
	return s.store.ActiveSubscriberCount()
}

func (s *Service) ActiveSubscribers() ([]string, error) {
	return s.store.ActiveSubscribers()
}

// Stats is the aggregate snapshot behind the admin /stats command.
type Stats struct {
	Episodes         int
	Pills            int
	Categories       int
	Guests           int
	Subscribers      int
	Queries          int
	TopQueries       []models.QueryCount
	LastEpisodeTitle string
}

func (s *Service) Stats() (Stats, error) {
	var stats Stats
	var err error

	if stats.Episodes, err = s.store.TotalEpisodes(); err != nil {
		return Stats{}, fmt.Errorf("total episodes: %w", err)
	}
	if stats.Pills, err = s.store.TotalPills(); err != nil {
		return Stats{}, fmt.Errorf("total pills: %w", err)
	}
	categories, err := s.store.Categories()
	if err != nil {
		return Stats{}, fmt.Errorf("categories: %w", err)
	}
	stats.Categories = len(categories)
	guests, err := s.store.Guests()
	if err != nil {
		return Stats{}, fmt.Errorf("guests: %w", err)
	}
	stats.Guests = len(guests)
	if stats.Subscribers, err = s.store.ActiveSubscriberCount(); err != nil {
		return Stats{}, fmt.Errorf("subscriber count: %w", err)
	}
	if stats.Queries, err = s.store.TotalStats(); err != nil {
		return Stats{}, fmt.Errorf("total stats: %w", err)
	}
	if stats.TopQueries, err = s.store.TopQueries(5); err != nil {
		return Stats{}, fmt.Errorf("top queries: %w", err)
	}
	last, err := s.store.LastEpisode()
	if err != nil {
		return Stats{}, fmt.Errorf("last episode: %w", err)
	}
	if last != nil {
		stats.LastEpisodeTitle = last.Title
	}
	return stats, nil
}
