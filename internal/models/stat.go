package models

import "time"

// Stat is one append-only usage record: which chat asked what, when.
type Stat struct {
	ID        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	ChatID    string    `db:"chat_id"`
	Query     string    `db:"query"`
}

// QueryCount is an aggregated stats row for the admin surface.
type QueryCount struct {
	Query string `db:"query"`
	Count int    `db:"count"`
}
