package model

import "time"

// FeedItem is one entry of the freelance-job feed, already normalized.
type FeedItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// ProjectRecord is a persisted feed project keyed by URL.
type ProjectRecord struct {
	URL              string    `json:"url"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Matched          bool      `json:"matched"`
	MessageGenerated string    `json:"message_generated"`
	Score            *int      `json:"score,omitempty"`
	FetchedAt        time.Time `json:"fetched_at"`
}
