package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	CycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "newspull",
			Subsystem: "engine",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of full scan cycles",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	CycleArticles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newspull",
			Subsystem: "engine",
			Name:      "cycle_articles_total",
			Help:      "Articles seen per cycle by outcome",
		},
		[]string{"outcome"},
	)

	CycleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newspull",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Errors by engine stage",
		},
		[]string{"stage"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(CycleDuration, CycleArticles, CycleErrors)
	})
}
