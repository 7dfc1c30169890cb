package repository

import (
	"context"
	"time"

	"NewsPull/internal/domain/models"
)

// FeedSource returns one batch of articles per call. Implementations decide
// what a batch means (RSS poll, stream buffer drain).
type FeedSource interface {
	Fetch(ctx context.Context) ([]models.Article, error)
	Name() string
}

// ArticleStream is a live headline feed over a persistent connection.
type ArticleStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Article, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// DedupStore persists article identities across runs.
type DedupStore interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(ctx context.Context, a *models.ScoredArticle) error
	PublishBatch(ctx context.Context, batch []*models.ScoredArticle) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, a *models.ScoredArticle) error
	StoreBatch(ctx context.Context, batch []*models.ScoredArticle) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.ScoredArticle, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// Notifier delivers a rendered report to its recipients.
type Notifier interface {
	Deliver(ctx context.Context, subject, htmlBody string) error
}

type Metrics interface {
	RecordArticle(source string)
	RecordMention(symbol, verdict string)
	RecordSkip(reason string)
	RecordError(kind string)
	RecordTickerScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
}
