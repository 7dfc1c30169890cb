package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"NewsPull/internal/domain/models"
	"NewsPull/internal/domain/repository"
	pkgkafka "NewsPull/pkg/kafka"
)

// ClickHouseArchive implements Storage over the scored-article archive.
// One row per (article, symbol); articles that mention no watched ticker
// archive a single row with an empty symbol.
type ClickHouseArchive struct {
	db    *sql.DB
	table string
}

func NewClickHouseArchive(db *sql.DB, table string) repository.Storage {
	return &ClickHouseArchive{db: db, table: table}
}

func (s *ClickHouseArchive) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseArchive) Store(ctx context.Context, a *models.ScoredArticle) error {
	return s.StoreBatch(ctx, []*models.ScoredArticle{a})
}

func (s *ClickHouseArchive) StoreBatch(ctx context.Context, batch []*models.ScoredArticle) error {
	if len(batch) == 0 {
		return nil
	}
	var values []string
	var args []interface{}
	for _, a := range batch {
		if a == nil || a.Article.ID == "" {
			continue
		}
		symbols := a.Symbols
		if len(symbols) == 0 {
			symbols = []string{""}
		}
		for _, sym := range symbols {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				a.Article.ID,
				sym,
				a.Article.PublishedAt,
				a.Article.Source,
				a.Article.Title,
				a.Article.Summary,
				a.Article.Link,
				a.Result.Score,
				string(a.Result.Label),
				string(a.Result.Strategy),
			)
		}
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (id, symbol, published_at, source, title, summary, link, score, label, strategy) VALUES %s",
		s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("archive insert: %w", err)
	}
	return nil
}

func (s *ClickHouseArchive) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.ScoredArticle, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if symbol != "" {
		q := fmt.Sprintf(
			"SELECT id, symbol, published_at, source, title, summary, link, score, label, strategy FROM %s WHERE symbol = ? AND published_at >= ? AND published_at <= ? ORDER BY published_at DESC LIMIT ?",
			s.table)
		rows, err = s.db.QueryContext(ctx, q, symbol, from, to, limit)
	} else {
		q := fmt.Sprintf(
			"SELECT id, symbol, published_at, source, title, summary, link, score, label, strategy FROM %s WHERE published_at >= ? AND published_at <= ? ORDER BY published_at DESC LIMIT ?",
			s.table)
		rows, err = s.db.QueryContext(ctx, q, from, to, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("archive query: %w", err)
	}
	defer rows.Close()

	var out []*models.ScoredArticle
	for rows.Next() {
		var (
			a        models.ScoredArticle
			sym      string
			label    string
			strategy string
		)
		if err := rows.Scan(
			&a.Article.ID, &sym, &a.Article.PublishedAt, &a.Article.Source,
			&a.Article.Title, &a.Article.Summary, &a.Article.Link,
			&a.Result.Score, &label, &strategy,
		); err != nil {
			return nil, err
		}
		if sym != "" {
			a.Symbols = []string{sym}
		}
		a.Result.Label = models.Label(label)
		a.Result.Strategy = models.Strategy(strategy)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *ClickHouseArchive) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseArchive) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for the scored-article topic.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, a *models.ScoredArticle) error {
	return p.producer.Publish(ctx, p.topic, []byte(a.Article.ID), a)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, batch []*models.ScoredArticle) error {
	if len(batch) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(batch))
	for i, a := range batch {
		msgs[i] = pkgkafka.Message{Key: []byte(a.Article.ID), Value: a}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
