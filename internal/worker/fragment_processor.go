package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ravenholt/encounter-engine/internal/services"
	"github.com/ravenholt/encounter-engine/internal/services/queue"
	"github.com/ravenholt/encounter-engine/internal/storage"
	"github.com/ravenholt/encounter-engine/pkg/engine"
	queuePkg "github.com/ravenholt/encounter-engine/pkg/queue"
)

// FragmentProcessor runs one queued fragment through the engine and
// persists the outcome.
type FragmentProcessor struct {
	storage  storage.Storage
	queue    *queue.FragmentQueue
	notifier *services.ContinuationNotifier
	log      *slog.Logger
}

// NewFragmentProcessor creates a processor. The queue and notifier
// are optional; nil disables transcript logging and continuation
// notifications respectively.
func NewFragmentProcessor(st storage.Storage, fq *queue.FragmentQueue, notifier *services.ContinuationNotifier, log *slog.Logger) *FragmentProcessor {
	return &FragmentProcessor{
		storage:  st,
		queue:    fq,
		notifier: notifier,
		log:      log,
	}
}

// Process loads the session, handles the fragment and saves the
// updated state. The continuation notification is fire and forget.
func (p *FragmentProcessor) Process(ctx context.Context, req *queuePkg.FragmentRequest) (engine.FragmentResult, error) {
	var zero engine.FragmentResult

	rec, err := p.storage.LoadSession(ctx, req.SessionID)
	if err != nil {
		return zero, fmt.Errorf("failed to load session: %w", err)
	}
	if rec == nil {
		return zero, fmt.Errorf("session not found: %s", req.SessionID)
	}

	eng := engine.Restore(rec.Party, rec.Combat, engine.Options{
		SupportsBracketNotation: rec.BracketNotation,
		AutoResolve:             rec.AutoResolve,
	})

	result := eng.HandleFragment(req.Text)
	rec.Combat = eng.Session()

	if err := p.storage.SaveSession(ctx, req.SessionID, rec); err != nil {
		return zero, fmt.Errorf("failed to save session: %w", err)
	}

	if p.queue != nil {
		if err := p.queue.LogFragment(ctx, req.SessionID, req.Text); err != nil {
			// Transcript is best effort
			p.log.Warn("Failed to log fragment to transcript",
				"error", err,
				"session_id", req.SessionID)
		}
	}

	p.log.Info("Fragment processed",
		"request_id", req.RequestID,
		"session_id", req.SessionID,
		"started_combat", result.StartedCombat,
		"ended_combat", result.EndedCombat,
		"threats", len(result.Threats),
		"prompts", len(result.Prompts),
		"checks", len(result.Checks))

	// The upstream narrator is only poked when auto-resolve rolled at
	// least one check for this fragment.
	if p.notifier != nil && p.notifier.Enabled() && rec.AutoResolve && len(result.Checks) > 0 {
		go p.notifier.NotifyContinue(context.Background(), req.SessionID)
	}

	return result, nil
}
