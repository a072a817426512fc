package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ravenholt/encounter-engine/internal/services/events"
	"github.com/ravenholt/encounter-engine/internal/services/queue"
	queuePkg "github.com/ravenholt/encounter-engine/pkg/queue"
)

const (
	workerTimeout   = 5 * time.Second
	sessionLockTTL  = 30 * time.Second
	requeueCooldown = 100 * time.Millisecond
)

// Worker drains the fragment queue. Each request takes a per-session
// lock so two workers never mutate the same session concurrently.
type Worker struct {
	id          string
	queue       *queue.FragmentQueue
	processor   *FragmentProcessor
	broadcaster *events.Broadcaster
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(fq *queue.FragmentQueue, processor *FragmentProcessor, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       fq,
		processor:   processor,
		broadcaster: events.NewBroadcaster(redisClient, log),
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing requests from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextRequest(); err != nil {
				w.log.Error("Error processing request", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextRequest pulls the next request from the queue and processes it
func (w *Worker) processNextRequest() error {
	// Block waiting for the next request, timing out periodically to
	// check for shutdown
	ctx, cancel := context.WithTimeout(w.ctx, workerTimeout)
	defer cancel()

	req, err := w.queue.BlockingDequeueRequest(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || errors.Is(err, redis.Nil) {
			// Empty queue or shutdown, both normal
			return nil
		}
		return fmt.Errorf("failed to dequeue request: %w", err)
	}
	if req == nil {
		return nil
	}

	w.log.Info("Received request from queue",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"session_id", req.SessionID.String(),
	)

	// Try to acquire the session lock
	locked, err := w.acquireSessionLock(req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		// Another worker owns this session. Re-queue at the end and
		// move on.
		w.log.Info("Session already locked, re-queueing request",
			"worker_id", w.id,
			"request_id", req.RequestID,
			"session_id", req.SessionID.String(),
		)
		if err := w.queue.EnqueueRequest(w.ctx, req); err != nil {
			return fmt.Errorf("failed to re-queue request: %w", err)
		}
		time.Sleep(requeueCooldown)
		return nil
	}

	defer w.releaseSessionLock(req.SessionID)
	return w.processRequest(req)
}

// acquireSessionLock attempts to acquire a lock for a session
// Returns true if lock was acquired, false if already locked
func (w *Worker) acquireSessionLock(sessionID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, sessionLockTTL).Result()
	if err != nil {
		return false, err
	}

	return result, nil
}

// releaseSessionLock releases the lock for a session
func (w *Worker) releaseSessionLock(sessionID uuid.UUID) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release session lock", "error", err, "session_id", sessionID.String())
	}
}

// processRequest runs a single request through the fragment processor
// and broadcasts what happened
func (w *Worker) processRequest(req *queuePkg.FragmentRequest) error {
	start := time.Now()

	result, err := w.processor.Process(w.ctx, req)
	if err != nil {
		if pubErr := w.broadcaster.PublishRequestFailed(w.ctx, req.SessionID, req.RequestID, err.Error()); pubErr != nil {
			w.log.Error("Failed to publish failure event", "error", pubErr)
		}
		return fmt.Errorf("failed to process fragment: %w", err)
	}

	// Event publishing is best effort: a pub/sub failure never fails
	// the request
	if result.StartedCombat {
		names := make([]string, 0, len(result.Threats))
		for _, t := range result.Threats {
			names = append(names, t.Name)
		}
		if err := w.broadcaster.PublishCombatStarted(w.ctx, req.SessionID, req.RequestID, names); err != nil {
			w.log.Error("Failed to publish combat started event", "error", err)
		}
	}
	if result.EndedCombat {
		if err := w.broadcaster.PublishCombatEnded(w.ctx, req.SessionID, req.RequestID, len(result.Loot)); err != nil {
			w.log.Error("Failed to publish combat ended event", "error", err)
		}
	}
	for _, check := range result.Checks {
		if err := w.broadcaster.PublishCheckResolved(w.ctx, req.SessionID, req.RequestID, check.SkillOrAbility, check.Total, check.Success); err != nil {
			w.log.Error("Failed to publish check resolved event", "error", err)
		}
	}

	w.log.Info("Request processed successfully",
		"worker_id", w.id,
		"request_id", req.RequestID,
		"started_combat", result.StartedCombat,
		"ended_combat", result.EndedCombat,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return nil
}
