package usecase

import (
	"context"
	"fmt"
	"time"

	"NewsPull/internal/domain/models"
	drepo "NewsPull/internal/domain/repository"
)

// ArticleProcessor routes scored articles to the configured output backend.
type ArticleProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
}

func NewArticleProcessor(pub drepo.Publisher, store drepo.Storage, metrics drepo.Metrics, backend string) *ArticleProcessor {
	return &ArticleProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Process routes a single scored article.
func (p *ArticleProcessor) Process(ctx context.Context, a *models.ScoredArticle) error {
	if a == nil {
		return fmt.Errorf("scored article is nil")
	}
	if p.backend == "none" {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, a)
	case "clickhouse":
		err = p.store.Store(ctx, a)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process article: %w", err)
	}

	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes multiple scored articles.
func (p *ArticleProcessor) ProcessBatch(ctx context.Context, batch []*models.ScoredArticle) error {
	if len(batch) == 0 || p.backend == "none" {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, batch)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, batch)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *ArticleProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
