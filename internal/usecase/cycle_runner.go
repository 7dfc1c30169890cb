package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"NewsPull/internal/domain/models"
	drepo "NewsPull/internal/domain/repository"
	domsvc "NewsPull/internal/domain/service"
	enginemetrics "NewsPull/internal/service/metrics"
	"NewsPull/internal/services/sentiment"
	"NewsPull/internal/watchlist"
	"NewsPull/pkg/logger"
)

// ErrCycleInProgress is returned when a run is requested while another
// cycle is still executing.
var ErrCycleInProgress = errors.New("scan cycle already in progress")

// Skip reasons surfaced in CycleReport.Skipped.
const (
	SkipScoreUnavailable = "score_unavailable"
	SkipTimeout          = "timeout"
)

// CycleRunner executes one full scan cycle: fetch, dedup-check, scan,
// disambiguate, score, fold, mark. At most one cycle runs at a time.
type CycleRunner struct {
	sources        []drepo.FeedSource
	dedup          drepo.DedupStore
	scorer         domsvc.Scorer
	disamb         *Disambiguator
	index          *watchlist.AliasIndex
	proc           *ArticleProcessor
	metrics        drepo.Metrics
	logger         *logger.Logger
	workers        int
	articleTimeout time.Duration
	topK           int

	running atomic.Bool
	last    atomic.Pointer[models.CycleReport]
}

func NewCycleRunner(
	sources []drepo.FeedSource,
	dedup drepo.DedupStore,
	scorer domsvc.Scorer,
	disamb *Disambiguator,
	index *watchlist.AliasIndex,
	proc *ArticleProcessor,
	metrics drepo.Metrics,
	log *logger.Logger,
	workers int,
	articleTimeout time.Duration,
	topK int,
) *CycleRunner {
	if workers <= 0 {
		workers = 4
	}
	if articleTimeout <= 0 {
		articleTimeout = 15 * time.Second
	}
	enginemetrics.Register()
	return &CycleRunner{
		sources:        sources,
		dedup:          dedup,
		scorer:         scorer,
		disamb:         disamb,
		index:          index,
		proc:           proc,
		metrics:        metrics,
		logger:         log,
		workers:        workers,
		articleTimeout: articleTimeout,
		topK:           topK,
	}
}

// Latest returns the most recent completed cycle report, or nil.
func (r *CycleRunner) Latest() *models.CycleReport { return r.last.Load() }

// cycleState carries the mutable counters of one run.
type cycleState struct {
	mu         sync.Mutex
	reserved   map[string]bool
	processed  int
	duplicates int
	skipped    map[string]int
	warnings   []string
}

// reserve claims an article ID for this run. The second worker to see the
// same ID inside one batch loses the claim.
func (s *cycleState) reserve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reserved[id] {
		return false
	}
	s.reserved[id] = true
	return true
}

func (s *cycleState) addDuplicate() {
	s.mu.Lock()
	s.duplicates++
	s.mu.Unlock()
}

func (s *cycleState) addProcessed() {
	s.mu.Lock()
	s.processed++
	s.mu.Unlock()
}

func (s *cycleState) addSkip(reason string) {
	s.mu.Lock()
	s.skipped[reason]++
	s.mu.Unlock()
}

func (s *cycleState) warn(msg string) {
	s.mu.Lock()
	s.warnings = append(s.warnings, msg)
	s.mu.Unlock()
}

// Run executes one cycle and returns its report. Cancellation mid-cycle is
// safe: unscored articles are never marked seen, and the snapshot reflects
// only fully folded articles.
func (r *CycleRunner) Run(ctx context.Context) (*models.CycleReport, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer r.running.Store(false)

	started := time.Now()
	r.logger.Info("scan cycle started", logger.Int("sources", len(r.sources)))

	var batch []models.Article
	for _, src := range r.sources {
		articles, err := src.Fetch(ctx)
		if err != nil {
			r.metrics.RecordError("fetch")
			enginemetrics.CycleErrors.WithLabelValues("fetch").Inc()
			r.logger.Warn("feed fetch failed",
				logger.String("source", src.Name()),
				logger.Error(err))
			continue
		}
		for range articles {
			r.metrics.RecordArticle(src.Name())
		}
		batch = append(batch, articles...)
	}

	state := &cycleState{
		reserved: make(map[string]bool),
		skipped:  make(map[string]int),
	}
	agg := NewAggregator(r.topK)

	jobs := make(chan models.Article)
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				r.processArticle(ctx, a, agg, state)
			}
		}()
	}

feed:
	for _, a := range batch {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- a:
		}
	}
	close(jobs)
	wg.Wait()

	report := r.buildReport(started, agg, state)
	r.last.Store(report)

	enginemetrics.CycleDuration.Observe(time.Since(started).Seconds())
	enginemetrics.CycleArticles.WithLabelValues("processed").Add(float64(report.Processed))
	enginemetrics.CycleArticles.WithLabelValues("duplicate").Add(float64(report.Duplicates))
	enginemetrics.CycleArticles.WithLabelValues("skipped").Add(float64(report.SkippedTotal()))

	r.logger.Info("scan cycle finished",
		logger.Int("processed", report.Processed),
		logger.Int("duplicates", report.Duplicates),
		logger.Int("skipped", report.SkippedTotal()),
		logger.Duration("elapsed", time.Since(started)))

	if ctx.Err() != nil {
		return report, ctx.Err()
	}
	return report, nil
}

func (r *CycleRunner) processArticle(ctx context.Context, a models.Article, agg *Aggregator, state *cycleState) {
	if ctx.Err() != nil {
		return
	}
	actx, cancel := context.WithTimeout(ctx, r.articleTimeout)
	defer cancel()

	if !state.reserve(a.ID) {
		state.addDuplicate()
		return
	}
	seen, err := r.dedup.Seen(actx, a.ID)
	if err != nil {
		r.metrics.RecordError("dedup_seen")
		state.warn(fmt.Sprintf("dedup check failed for %s: %v", a.ID, err))
	} else if seen {
		state.addDuplicate()
		return
	}

	mentions := ScanMentions(a, r.index)
	accepted := mentions[:0]
	for i := range mentions {
		ok, reason := r.disamb.Validate(mentions[i], a)
		mentions[i].Accepted = ok
		mentions[i].RejectionReason = reason
		if ok {
			r.metrics.RecordMention(mentions[i].Symbol, "accepted")
			accepted = append(accepted, mentions[i])
		} else {
			r.metrics.RecordMention(mentions[i].Symbol, reason)
		}
	}

	res, err := r.scorer.Score(actx, a)
	if err != nil {
		reason := SkipScoreUnavailable
		if errors.Is(err, context.DeadlineExceeded) || actx.Err() != nil {
			reason = SkipTimeout
		}
		if !errors.Is(err, sentiment.ErrUnavailable) && !errors.Is(err, context.Canceled) {
			r.logger.Warn("scoring error", logger.String("article_id", a.ID), logger.Error(err))
		}
		r.metrics.RecordSkip(reason)
		state.addSkip(reason)
		return
	}

	// fold before mark so a cancelled run never loses a marked article
	agg.Fold(accepted, res, a)
	state.addProcessed()

	if err := r.dedup.Mark(actx, a.ID); err != nil {
		r.metrics.RecordError("dedup_mark")
		state.warn(fmt.Sprintf("dedup mark failed for %s: %v", a.ID, err))
	}

	if r.proc != nil {
		scored := &models.ScoredArticle{
			Article:     a,
			Result:      res,
			Symbols:     uniqueSymbols(accepted),
			ProcessedAt: time.Now().UTC(),
		}
		if err := r.proc.Process(actx, scored); err != nil {
			r.logger.Warn("output backend failed", logger.String("article_id", a.ID), logger.Error(err))
		}
	}
}

func uniqueSymbols(mentions []models.Mention) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range mentions {
		if !seen[m.Symbol] {
			seen[m.Symbol] = true
			out = append(out, m.Symbol)
		}
	}
	return out
}

func (r *CycleRunner) buildReport(started time.Time, agg *Aggregator, state *cycleState) *models.CycleReport {
	market, tickers := agg.Snapshot()
	for sym, t := range tickers {
		r.metrics.RecordTickerScore(sym, t.Average())
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return &models.CycleReport{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Market:     market,
		Tickers:    tickers,
		Processed:  state.processed,
		Duplicates: state.duplicates,
		Skipped:    state.skipped,
		Warnings:   state.warnings,
	}
}
