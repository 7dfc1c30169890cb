package service

import (
	"context"

	"NewsPull/internal/domain/models"
)

// Scorer assigns a sentiment score to one article. Implementations must be
// safe for concurrent use; blocking ones honor ctx cancellation.
type Scorer interface {
	Score(ctx context.Context, a models.Article) (models.SentimentResult, error)
	Strategy() models.Strategy
}
