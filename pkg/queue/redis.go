package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"NewsPull/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisQueue is a Redis-list backed job queue with delayed retries and a
// dead-letter list. It delivers report emails without blocking the scan
// cycle that produced them.
type RedisQueue struct {
	log    *logger.Logger
	cfg    *QueueConfig
	client *redis.Client
	prefix string

	mu      sync.RWMutex
	jobs    map[string]Job
	running bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// RedisQueueOption configures RedisQueue.
type RedisQueueOption func(*RedisQueue)

// WithKeyPrefix overrides the Redis key namespace.
func WithKeyPrefix(prefix string) RedisQueueOption {
	return func(r *RedisQueue) { r.prefix = prefix }
}

func NewRedisQueue(log *logger.Logger, cfg *QueueConfig, client *redis.Client, opts ...RedisQueueOption) *RedisQueue {
	if cfg == nil {
		cfg = &QueueConfig{}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	q := &RedisQueue{
		log:    log,
		cfg:    cfg,
		client: client,
		prefix: "newspull:queue",
		jobs:   make(map[string]Job),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// RegisterJob binds a job to its message type. The first registration wins.
func (r *RedisQueue) RegisterJob(job Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[job.Type()]; ok {
		r.log.Warn("queue job already registered", logger.String("job", job.Name()))
		return
	}
	r.jobs[job.Type()] = job
	r.log.Info("queue job registered",
		logger.String("job", job.Name()),
		logger.String("type", job.Type()))
}

// Start verifies the Redis connection and launches the worker pool.
func (r *RedisQueue) Start() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("queue already running")
	}
	r.running = true
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.client.Ping(ctx).Err(); err != nil {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		return fmt.Errorf("redis ping: %w", err)
	}

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
	r.log.Info("delivery queue started",
		logger.Int("workers", r.cfg.Workers),
		logger.String("addr", r.client.Options().Addr))
	return nil
}

// StartRetryProcessor launches the goroutine that moves due retries back
// onto the main list.
func (r *RedisQueue) StartRetryProcessor() {
	r.wg.Add(1)
	go r.retryLoop()
}

// Stop cancels workers and waits for them up to ctx's deadline.
func (r *RedisQueue) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return fmt.Errorf("queue stop: %w", ctx.Err())
	case <-done:
		r.log.Info("delivery queue stopped")
		return nil
	}
}

// Enqueue pushes a message for a registered job type.
func (r *RedisQueue) Enqueue(ctx context.Context, msgType string, payload interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.running {
		return fmt.Errorf("queue not running")
	}
	if _, ok := r.jobs[msgType]; !ok {
		return fmt.Errorf("no job registered for type %q", msgType)
	}

	data, err := json.Marshal(Message{
		ID:        strconv.FormatInt(time.Now().UnixNano(), 10),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := r.client.LPush(ctx, r.queueKey(), data).Err(); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

func (r *RedisQueue) worker(id int) {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			r.log.Debug("queue worker stopped", logger.Int("worker_id", id))
			return
		default:
		}
		r.popAndHandle()
	}
}

func (r *RedisQueue) popAndHandle() {
	res, err := r.client.BRPop(r.ctx, time.Second, r.queueKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}
		r.log.Error("queue pop failed", logger.Error(err))
		time.Sleep(time.Second)
		return
	}
	if len(res) < 2 {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(res[1]), &msg); err != nil {
		r.log.Error("queue message unmarshal failed", logger.Error(err))
		return
	}

	job, ok := r.jobs[msg.Type]
	if !ok {
		r.log.Error("no job for queued message",
			logger.String("type", msg.Type),
			logger.String("id", msg.ID))
		return
	}

	// payloads deserialize as map[string]interface{}; hand jobs raw JSON
	// so ParsePayload can rebuild the concrete type
	if m, ok := msg.Payload.(map[string]interface{}); ok {
		if b, err := json.Marshal(m); err == nil {
			msg.Payload = json.RawMessage(b)
		}
	}

	if err := job.Handle(r.ctx, msg.Payload); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.retryOrBury(msg, job, err)
	}
}

func (r *RedisQueue) retryOrBury(msg Message, job Job, err error) {
	r.log.Error("queue job failed",
		logger.String("id", msg.ID),
		logger.String("job", job.Name()),
		logger.Int("attempt", msg.Attempts+1),
		logger.Error(err))

	if msg.Attempts >= r.cfg.RetryLimit {
		r.push(r.dlqKey(), msg)
		r.log.Error("queue job exhausted retries",
			logger.String("id", msg.ID),
			logger.String("job", job.Name()))
		return
	}

	msg.Attempts++
	data, merr := json.Marshal(msg)
	if merr != nil {
		r.log.Error("queue retry marshal failed", logger.Error(merr))
		return
	}
	due := time.Now().Add(r.cfg.RetryDelay)
	zerr := r.client.ZAdd(context.Background(), r.retryKey(), redis.Z{
		Score:  float64(due.Unix()),
		Member: data,
	}).Err()
	if zerr != nil {
		r.log.Error("queue retry schedule failed", logger.Error(zerr))
		return
	}
	r.log.Info("queue job retry scheduled",
		logger.String("id", msg.ID),
		logger.Int("attempt", msg.Attempts),
		logger.String("retry_at", due.Format(time.RFC3339)))
}

func (r *RedisQueue) push(key string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("queue push marshal failed", logger.Error(err))
		return
	}
	if err := r.client.LPush(context.Background(), key, data).Err(); err != nil {
		r.log.Error("queue push failed", logger.String("key", key), logger.Error(err))
	}
}

func (r *RedisQueue) retryLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.promoteDueRetries()
		}
	}
}

// promoteDueRetries atomically moves due retry entries back to the main
// list, so two processors never double-deliver one message.
func (r *RedisQueue) promoteDueRetries() {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	due, err := r.client.ZRangeByScore(r.ctx, r.retryKey(), &redis.ZRangeBy{
		Min: "0",
		Max: now,
	}).Result()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			r.log.Error("queue retry fetch failed", logger.Error(err))
		}
		return
	}
	for _, member := range due {
		pipe := r.client.TxPipeline()
		pipe.ZRem(r.ctx, r.retryKey(), member)
		pipe.LPush(r.ctx, r.queueKey(), member)
		if _, err := pipe.Exec(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.log.Error("queue retry promote failed", logger.Error(err))
		}
	}
}

func (r *RedisQueue) queueKey() string { return r.prefix + ":messages" }
func (r *RedisQueue) retryKey() string { return r.prefix + ":retry" }
func (r *RedisQueue) dlqKey() string   { return r.prefix + ":dlq" }
