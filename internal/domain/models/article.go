package models

import (
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// Article is one fetched news item. Immutable once fetched; the engine
// receives it by value from the ingestion layer.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Text returns the combined title and summary the engine matches and scores on.
func (a Article) Text() string {
	if a.Summary == "" {
		return a.Title
	}
	return a.Title + " " + a.Summary
}

// DeriveArticleID builds a stable identity from the source link,
// falling back to link+title when the link is empty.
func DeriveArticleID(link, title string) string {
	h := sha1.New()
	if link != "" {
		h.Write([]byte(link))
	} else {
		h.Write([]byte(title))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ScoredArticle is the processed record handed to output backends.
type ScoredArticle struct {
	Article     Article         `json:"article"`
	Result      SentimentResult `json:"result"`
	Symbols     []string        `json:"symbols"`
	ProcessedAt time.Time       `json:"processed_at"`
}
