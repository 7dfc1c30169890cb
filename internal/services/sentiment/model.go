package sentiment

import (
	"context"
	"fmt"
	"time"

	"NewsPull/internal/domain/models"
	icache "NewsPull/internal/service/cache"
	"NewsPull/internal/service/ratelimit"
	xhttp "NewsPull/pkg/http"
	"NewsPull/pkg/logger"
	"NewsPull/pkg/util"
)

// maxModelInput bounds the text sent to the inference service.
const maxModelInput = 512

type scoreRequest struct {
	Text string `json:"text"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// ModelScorer calls an external inference service over HTTP. Results are
// cached per article ID and calls are bounded by a token bucket so a large
// batch cannot overrun the model backend.
type ModelScorer struct {
	client   *xhttp.Client
	url      string
	cache    *icache.TTLCache[models.SentimentResult]
	cacheTTL time.Duration
	limiter  *ratelimit.Limiter
	maxRPS   float64
	logger   *logger.Logger
}

func NewModelScorer(url string, timeout, cacheTTL time.Duration, maxRPS float64, log *logger.Logger) *ModelScorer {
	return &ModelScorer{
		client:   xhttp.NewClient(xhttp.WithTimeout(timeout)),
		url:      url,
		cache:    icache.NewTTLCache[models.SentimentResult](),
		cacheTTL: cacheTTL,
		limiter:  ratelimit.New(),
		maxRPS:   maxRPS,
		logger:   log,
	}
}

func (s *ModelScorer) Score(ctx context.Context, a models.Article) (models.SentimentResult, error) {
	if s.cacheTTL > 0 {
		if res, ok := s.cache.Get(a.ID); ok {
			return res, nil
		}
	}

	if s.maxRPS > 0 {
		if err := s.limiter.Wait(ctx, "model", s.maxRPS, s.maxRPS); err != nil {
			return models.SentimentResult{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
		}
	}

	var resp scoreResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    s.url,
		Body:   scoreRequest{Text: util.Truncate(a.Text(), maxModelInput)},
	}, &resp)
	if err != nil {
		s.logger.Warn("model scoring failed",
			logger.String("article_id", a.ID),
			logger.Error(err))
		return models.SentimentResult{}, fmt.Errorf("%w: %s", ErrUnavailable, err)
	}

	score := Clamp(resp.Score)
	res := models.SentimentResult{
		Score:    score,
		Label:    LabelFromScore(score),
		Strategy: models.StrategyModel,
	}
	if s.cacheTTL > 0 {
		s.cache.Set(a.ID, res, s.cacheTTL)
	}
	return res, nil
}

func (s *ModelScorer) Strategy() models.Strategy { return models.StrategyModel }
