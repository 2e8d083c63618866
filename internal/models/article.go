package models

import "time"

// Article is the canonical sentiment-scored document stored in Elasticsearch.
// Sentiment is a lowercase categorical label assigned upstream; Topics may be
// empty.
type Article struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"publishedAt"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	Sentiment   string    `json:"sentiment"`
	Topics      []string  `json:"topics"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
}

// Day returns the UTC calendar-day grouping key.
func (a Article) Day() string {
	return a.PublishedAt.UTC().Format("2006-01-02")
}

// Hour returns the UTC hour of day, 0-23.
func (a Article) Hour() int {
	return a.PublishedAt.UTC().Hour()
}
