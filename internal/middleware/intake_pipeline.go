package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"NewsPull/internal/domain/models"
	domrepo "NewsPull/internal/domain/repository"
)

// Sink is the downstream the pipeline feeds into.
type Sink interface {
	Offer(ctx context.Context, a *models.Article) error
}

// IntakePipeline sits between a live headline stream and the scan buffer.
// It validates frames, throttles per source, and retries buffered articles
// when the downstream is temporarily unavailable.
type IntakePipeline struct {
	sink    Sink
	metrics domrepo.Metrics
	maxRPS  int
	bufSize int
	bufCh   chan *models.Article
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	// per-source last accepted time
	lastSeen map[string]time.Time
}

type PipelineOption func(*IntakePipeline)

// WithMaxRPS caps accepted articles per second per source.
func WithMaxRPS(n int) PipelineOption {
	return func(p *IntakePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the retry buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *IntakePipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

func NewIntakePipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *IntakePipeline {
	p := &IntakePipeline{
		sink:     sink,
		metrics:  metrics,
		maxRPS:   50,
		bufSize:  1000,
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.Article, p.bufSize)
	return p
}

// Start launches background flushing of buffered articles.
func (p *IntakePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case a := <-p.bufCh:
				if a == nil {
					continue
				}
				if err := p.sink.Offer(ctx, a); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IntakePipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Offer validates and throttles an article, forwarding it downstream and
// buffering it when the downstream rejects.
func (p *IntakePipeline) Offer(ctx context.Context, a *models.Article) error {
	now := time.Now()
	if err := validateArticle(a); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(a.Source, now) {
		// throttled; count and drop
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Offer(ctx, a); err != nil {
		p.metrics.RecordError("pipeline_offer")
		select {
		case p.bufCh <- a:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	return nil
}

func validateArticle(a *models.Article) error {
	if a == nil {
		return fmt.Errorf("article nil")
	}
	if a.ID == "" {
		return fmt.Errorf("article id empty")
	}
	if a.Title == "" {
		return fmt.Errorf("article title empty")
	}
	return nil
}

func (p *IntakePipeline) allow(source string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[source]
	if last.IsZero() || now.Sub(last) >= time.Second/time.Duration(p.maxRPS) {
		p.lastSeen[source] = now
		return true
	}
	return false
}
