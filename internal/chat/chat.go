package chat

import (
	"errors"
	"fmt"
	"time"
)

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrJobFailed    = errors.New("coach could not answer")
	// ErrAwaitTimeout means the job was still running when the poll budget ran out.
	ErrAwaitTimeout = errors.New("timed out waiting for the coach")

	errJobPending = errors.New("job pending")
)

type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Job struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Reply  *Message `json:"reply,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// PollConfig bounds the wait for a chat job: exponential backoff between
// polls, at most MaxAttempts polls and never longer than MaxWait overall.
type PollConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxAttempts     int
	MaxWait         time.Duration
}

func DefaultPollConfig() PollConfig {
	return PollConfig{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
		MaxAttempts:     20,
		MaxWait:         90 * time.Second,
	}
}

func (c PollConfig) Validate() error {
	if c.InitialInterval <= 0 {
		return fmt.Errorf("initial interval must be positive, got %s", c.InitialInterval)
	}
	if c.MaxInterval < c.InitialInterval {
		return fmt.Errorf("max interval %s below initial interval %s", c.MaxInterval, c.InitialInterval)
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be >= 1, got %f", c.Multiplier)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be >= 1, got %d", c.MaxAttempts)
	}
	if c.MaxWait <= 0 {
		return fmt.Errorf("max wait must be positive, got %s", c.MaxWait)
	}
	return nil
}
