package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"NewsPull/internal/domain/models"
	drepo "NewsPull/internal/domain/repository"
	"NewsPull/pkg/logger"
	"NewsPull/pkg/util"

	"github.com/gorilla/websocket"
)

// StreamClient implements an ArticleStream over a WebSocket headline feed.
type StreamClient struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *logger.Logger

	conn      *websocket.Conn
	connected bool
}

func NewStreamClient(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration, log *logger.Logger) drepo.ArticleStream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &StreamClient{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         log,
	}
}

// Connect establishes the WebSocket connection.
func (c *StreamClient) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.apiKey != "" {
		u = fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	c.logger.Info("headline stream connected", logger.String("url", c.websocketURL))
	return nil
}

// Subscribe requests the news channel.
func (c *StreamClient) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("stream not connected")
	}
	msg := map[string]string{"type": "subscribe", "channel": "news"}
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe news: %w", err)
	}
	return nil
}

type wireArticle struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at"`
}

type wireMessage struct {
	Type string        `json:"type"`
	Data []wireArticle `json:"data"`
}

// Read streams articles and errors until ctx is done or the connection drops.
func (c *StreamClient) Read(ctx context.Context) (<-chan *models.Article, <-chan error) {
	articles := make(chan *models.Article, 256)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(articles)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("stream conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("stream read: %w", err)
					return
				}
				var m wireMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-article frames
					continue
				}
				if m.Type != "article" {
					continue
				}
				for _, w := range m.Data {
					a := decodeWire(w)
					select {
					case articles <- a:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return articles, errs
}

func decodeWire(w wireArticle) *models.Article {
	id := w.ID
	if id == "" {
		id = models.DeriveArticleID(w.Link, w.Title)
	}
	return &models.Article{
		ID:          id,
		Title:       w.Title,
		Summary:     w.Summary,
		Source:      w.Source,
		Link:        w.Link,
		PublishedAt: util.ParseTimeDefault(w.PublishedAt, time.Now().UTC()),
	}
}

// Reconnect closes and reconnects.
func (c *StreamClient) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *StreamClient) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *StreamClient) IsConnected() bool { return c.connected }

// StreamSource buffers articles arriving from a live stream and exposes
// them as a FeedSource: each Fetch drains everything buffered since the
// previous one.
type StreamSource struct {
	stream drepo.ArticleStream
	pipe   Sink
	logger *logger.Logger

	mu  sync.Mutex
	buf []models.Article
	max int
}

// Sink receives validated articles between the stream and the buffer.
type Sink interface {
	Offer(ctx context.Context, a *models.Article) error
}

func NewStreamSource(stream drepo.ArticleStream, bufferSize int, log *logger.Logger) *StreamSource {
	if bufferSize <= 0 {
		bufferSize = 2048
	}
	return &StreamSource{stream: stream, logger: log, max: bufferSize}
}

// SetPipe inserts an intake pipeline in front of the buffer.
func (s *StreamSource) SetPipe(p Sink) { s.pipe = p }

// Offer appends an article to the buffer, dropping the oldest on overflow.
func (s *StreamSource) Offer(_ context.Context, a *models.Article) error {
	if a == nil {
		return fmt.Errorf("article nil")
	}
	s.mu.Lock()
	if len(s.buf) >= s.max {
		s.buf = s.buf[1:]
	}
	s.buf = append(s.buf, *a)
	s.mu.Unlock()
	return nil
}

// Start connects and consumes in the background until ctx is done.
func (s *StreamSource) Start(ctx context.Context) error {
	if err := s.stream.Connect(ctx); err != nil {
		return err
	}
	if err := s.stream.Subscribe(ctx); err != nil {
		return err
	}
	if st, ok := s.pipe.(interface{ Start(context.Context) }); ok {
		st.Start(ctx)
	}
	go s.consume(ctx)
	return nil
}

func (s *StreamSource) consume(ctx context.Context) {
	articles, errs := s.stream.Read(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				s.logger.Warn("stream error, reconnecting", logger.Error(err))
				if rerr := s.stream.Reconnect(ctx); rerr != nil {
					s.logger.Error("stream reconnect failed", logger.Error(rerr))
					return
				}
				articles, errs = s.stream.Read(ctx)
			}
		case a := <-articles:
			if a == nil {
				continue
			}
			if s.pipe != nil {
				_ = s.pipe.Offer(ctx, a)
			} else {
				_ = s.Offer(ctx, a)
			}
		}
	}
}

func (s *StreamSource) Name() string { return "stream" }

// Fetch drains the current buffer.
func (s *StreamSource) Fetch(_ context.Context) ([]models.Article, error) {
	s.mu.Lock()
	out := s.buf
	s.buf = nil
	s.mu.Unlock()
	return out, nil
}

// Stop closes the underlying stream and the intake pipeline.
func (s *StreamSource) Stop() error {
	if st, ok := s.pipe.(interface{ Stop() }); ok {
		st.Stop()
	}
	return s.stream.Close()
}
