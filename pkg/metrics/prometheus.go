package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	articlesTotal *prometheus.CounterVec
	mentionsTotal *prometheus.CounterVec
	skipsTotal    *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	tickerScore   *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		articlesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspull_articles_total",
				Help: "Total number of articles processed per feed source",
			},
			[]string{"source"},
		),
		mentionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspull_mentions_total",
				Help: "Candidate ticker mentions by verdict (accepted, no_context, negative_match)",
			},
			[]string{"symbol", "verdict"},
		),
		skipsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspull_skipped_articles_total",
				Help: "Articles dropped from a cycle by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newspull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		tickerScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "newspull_ticker_avg_score",
				Help: "Average sentiment score for a ticker in the latest cycle",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "newspull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordArticle records one processed article for a feed source.
func (r *Recorder) RecordArticle(source string) {
	r.articlesTotal.WithLabelValues(source).Inc()
}

// RecordMention records a mention verdict for a symbol.
func (r *Recorder) RecordMention(symbol, verdict string) {
	r.mentionsTotal.WithLabelValues(symbol, verdict).Inc()
}

// RecordSkip records an article dropped from the cycle.
func (r *Recorder) RecordSkip(reason string) {
	r.skipsTotal.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordTickerScore records the latest average score for a symbol.
func (r *Recorder) RecordTickerScore(symbol string, score float64) {
	r.tickerScore.WithLabelValues(symbol).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
