package feeds

import (
	"context"
	"fmt"
	"time"

	"NewsPull/internal/domain/models"
	drepo "NewsPull/internal/domain/repository"
	"NewsPull/pkg/logger"
	"NewsPull/pkg/util"

	"github.com/mmcdole/gofeed"
)

// RSSSource polls a list of RSS/Atom feeds. A failing feed is logged and
// skipped; one bad endpoint never empties the whole batch.
type RSSSource struct {
	urls         []string
	perFeedLimit int
	fetchTimeout time.Duration
	parser       *gofeed.Parser
	logger       *logger.Logger
}

func NewRSSSource(urls []string, perFeedLimit int, fetchTimeout time.Duration, log *logger.Logger) drepo.FeedSource {
	if perFeedLimit <= 0 {
		perFeedLimit = 10
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &RSSSource{
		urls:         urls,
		perFeedLimit: perFeedLimit,
		fetchTimeout: fetchTimeout,
		parser:       gofeed.NewParser(),
		logger:       log,
	}
}

func (s *RSSSource) Name() string { return "rss" }

func (s *RSSSource) Fetch(ctx context.Context) ([]models.Article, error) {
	var out []models.Article
	for _, u := range s.urls {
		items, err := s.fetchOne(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			s.logger.Warn("rss fetch failed", logger.String("url", u), logger.Error(err))
			continue
		}
		out = append(out, items...)
	}
	return out, nil
}

func (s *RSSSource) fetchOne(ctx context.Context, url string) ([]models.Article, error) {
	fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(url, fctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	source := feed.Title
	if source == "" {
		source = url
	}

	items := feed.Items
	if len(items) > s.perFeedLimit {
		items = items[:s.perFeedLimit]
	}
	out := make([]models.Article, 0, len(items))
	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}
		published := time.Now().UTC()
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.Published != "" {
			published = util.ParseTimeDefault(item.Published, published)
		}
		out = append(out, models.Article{
			ID:          models.DeriveArticleID(item.Link, item.Title),
			Title:       item.Title,
			Summary:     item.Description,
			Source:      source,
			Link:        item.Link,
			PublishedAt: published,
		})
	}
	return out, nil
}
