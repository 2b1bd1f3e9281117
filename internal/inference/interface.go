package inference

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for backlog inference operations
type Client interface {
	ExtractEntry(ctx context.Context, params ExtractEntryRequest) (BacklogEntry, error)
	ReviseEntry(ctx context.Context, params ReviseEntryRequest) (BacklogEntry, error)
}

// BacklogEntry is a structured backlog item produced from one dictation line.
// It is either fully populated and valid or it does not exist; no operation
// returns a partially filled entry together with an error.
type BacklogEntry struct {
	Title       string `json:"title"`
	Difficulty  int    `json:"difficulty"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// ExtractEntryRequest holds parameters for converting one dictation line
type ExtractEntryRequest struct {
	Dictation string `json:"dictation"`
	Model     string `json:"model,omitempty"` // Optional: overrides the client's configured model
}

// ReviseEntryRequest holds parameters for revising an accepted entry
type ReviseEntryRequest struct {
	Entry       BacklogEntry `json:"entry"`
	Instruction string       `json:"instruction"`
	Model       string       `json:"model,omitempty"` // Optional: overrides the client's configured model
}

// RetryConfig controls both retry strategies of a backend client: the
// back-off retries for transport failures and the immediate retries for
// replies whose content cannot be parsed into an entry.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	BackoffFactor  float64
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns the retry settings used by commands
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     2,
		InitialBackoff: time.Second,
		BackoffFactor:  2.0,
		MaxBackoff:     30 * time.Second,
	}
}
