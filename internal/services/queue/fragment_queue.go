package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ravenholt/encounter-engine/pkg/queue"
)

// fragmentsKey is the global work queue drained by the worker.
const fragmentsKey = "fragments"

// FragmentQueue manages the global fragment work queue plus a
// per-session transcript of processed fragments.
type FragmentQueue struct {
	client *Client
	logger *slog.Logger
}

// NewFragmentQueue creates a new fragment queue service
func NewFragmentQueue(client *Client, logger *slog.Logger) *FragmentQueue {
	return &FragmentQueue{
		client: client,
		logger: logger,
	}
}

// transcriptKey returns the Redis key for a session's fragment transcript
func transcriptKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("transcript:%s", sessionID.String())
}

// EnqueueRequest adds a fragment request to the global work queue
func (fq *FragmentQueue) EnqueueRequest(ctx context.Context, req *queue.FragmentRequest) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}

	if err := fq.client.rdb.RPush(ctx, fragmentsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}

	fq.logger.Debug("Enqueued fragment",
		"request_id", req.RequestID,
		"session_id", req.SessionID,
		"text_preview", truncate(req.Text, 50))

	return nil
}

// DequeueRequest removes and returns the next request from the global queue
// Returns nil if queue is empty
func (fq *FragmentQueue) DequeueRequest(ctx context.Context) (*queue.FragmentRequest, error) {
	result, err := fq.client.rdb.LPop(ctx, fragmentsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	req, err := queue.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// BlockingDequeueRequest blocks until a request is available, then returns it
func (fq *FragmentQueue) BlockingDequeueRequest(ctx context.Context) (*queue.FragmentRequest, error) {
	result, err := fq.client.rdb.BLPop(ctx, 0, fragmentsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}

	return req, nil
}

// Depth returns the number of requests in the global queue
func (fq *FragmentQueue) Depth(ctx context.Context) (int, error) {
	count, err := fq.client.rdb.LLen(ctx, fragmentsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// LogFragment appends a processed fragment to the session transcript
func (fq *FragmentQueue) LogFragment(ctx context.Context, sessionID uuid.UUID, text string) error {
	key := transcriptKey(sessionID)

	if err := fq.client.rdb.RPush(ctx, key, text).Err(); err != nil {
		fq.logger.Error("Failed to log fragment",
			"error", err,
			"session_id", sessionID,
			"key", key)
		return fmt.Errorf("failed to log fragment: %w", err)
	}

	return nil
}

// Transcript returns logged fragments without removing them. A limit
// of 0 or less returns the whole transcript.
func (fq *FragmentQueue) Transcript(ctx context.Context, sessionID uuid.UUID, limit int) ([]string, error) {
	key := transcriptKey(sessionID)

	end := int64(limit - 1)
	if limit <= 0 {
		end = -1 // Get all
	}

	fragments, err := fq.client.rdb.LRange(ctx, key, 0, end).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	return fragments, nil
}

// ClearTranscript removes the session's logged fragments
func (fq *FragmentQueue) ClearTranscript(ctx context.Context, sessionID uuid.UUID) error {
	key := transcriptKey(sessionID)

	if err := fq.client.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear transcript: %w", err)
	}

	fq.logger.Debug("Cleared transcript", "session_id", sessionID)
	return nil
}

// TranscriptDepth returns the number of fragments logged for a session
func (fq *FragmentQueue) TranscriptDepth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := fq.client.rdb.LLen(ctx, transcriptKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get transcript depth: %w", err)
	}
	return int(count), nil
}

// truncate truncates a string to maxLen characters
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
