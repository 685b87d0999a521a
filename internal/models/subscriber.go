package models

import "time"

// Subscriber is a chat registered for new-episode notifications. Subscribers
// are deactivated, never deleted, so historical stats keep their correlation.
type Subscriber struct {
	ChatID  string    `db:"chat_id"`
	AddedAt time.Time `db:"added_at"`
	Active  bool      `db:"active"`
}
