package usecase

import (
	"context"
	"encoding/json"
	"time"

	"NewsPull/internal/domain/models"
	domrepo "NewsPull/internal/domain/repository"
	pkgkafka "NewsPull/pkg/kafka"
)

// KafkaArticlesHandler consumes the scored-article topic and persists
// records into the archive.
type KafkaArticlesHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
}

func NewKafkaArticlesHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics) *KafkaArticlesHandler {
	return &KafkaArticlesHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaArticlesHandler) Topic() string { return h.topic }

func (h *KafkaArticlesHandler) Handle(ctx context.Context, b []byte) error {
	var a models.ScoredArticle
	if err := json.Unmarshal(b, &a); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if !a.ProcessedAt.IsZero() {
		h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(a.ProcessedAt).Seconds())
	}

	start := time.Now()
	err := h.storage.Store(ctx, &a)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaArticlesHandler)(nil)
