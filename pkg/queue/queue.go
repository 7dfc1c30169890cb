package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Job handles one message type pulled off the queue.
type Job interface {
	// Name identifies the job in logs.
	Name() string

	// Type is the message type this job consumes.
	Type() string

	Handle(ctx context.Context, payload interface{}) error
}

// QueueConfig tunes the worker pool and retry behavior.
type QueueConfig struct {
	Workers    int
	RetryLimit int
	RetryDelay time.Duration
}

// Message is the envelope stored in Redis.
type Message struct {
	ID        string
	Type      string
	Payload   interface{}
	Attempts  int
	Timestamp time.Time
}

// ParsePayload recovers a typed payload from whatever shape the envelope
// round-trip left it in.
func ParsePayload[T any](payload interface{}) (*T, error) {
	switch p := payload.(type) {
	case *T:
		return p, nil
	case T:
		return &p, nil
	case json.RawMessage:
		var out T
		if err := json.Unmarshal(p, &out); err != nil {
			return nil, fmt.Errorf("unmarshal payload: %w", err)
		}
		return &out, nil
	default:
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("re-marshal payload %T: %w", payload, err)
		}
		var out T
		if err := json.Unmarshal(b, &out); err != nil {
			return nil, fmt.Errorf("unmarshal payload %T: %w", payload, err)
		}
		return &out, nil
	}
}
