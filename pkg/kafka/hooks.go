package kafka

import (
	"context"

	"NewsPull/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook observes message handling. BeforeHandle may rewrite the
// context, message, or payload; a non-nil error skips the handler and goes
// straight to error processing.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is the default hook.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(context.Context, string, kafka.Message, []byte, error) {}

func (NoopHook) OnError(context.Context, string, kafka.Message, []byte, error) {}

// LoggingHook logs per-attempt handler failures at debug level so retried
// records stay visible without flooding the error log.
type LoggingHook struct {
	log *logger.Logger
}

func NewLoggingHook(log *logger.Logger) *LoggingHook {
	return &LoggingHook{log: log}
}

func (h *LoggingHook) BeforeHandle(ctx context.Context, _ string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (h *LoggingHook) AfterHandle(_ context.Context, topic string, km kafka.Message, _ []byte, err error) {
	if err != nil {
		return // OnError covers failures
	}
	h.log.Debug("kafka record handled",
		logger.String("topic", topic),
		logger.Int("partition", km.Partition))
}

func (h *LoggingHook) OnError(_ context.Context, topic string, km kafka.Message, _ []byte, err error) {
	h.log.Debug("kafka handler attempt failed",
		logger.String("topic", topic),
		logger.Int("partition", km.Partition),
		logger.Error(err))
}
