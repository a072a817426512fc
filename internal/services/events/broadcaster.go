package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeCombatStarted EventType = "combat.started"
	EventTypeCombatEnded   EventType = "combat.ended"
	EventTypeCheckResolved EventType = "check.resolved"
	EventTypeTurnAdvanced  EventType = "turn.advanced"
	EventTypeRequestFailed EventType = "request.failed"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	RequestID string                 `json:"request_id,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Broadcaster publishes session events to Redis Pub/Sub so live
// clients (the console, upstream pipelines) can follow along.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// ChannelFor returns the pub/sub channel name for a session.
func ChannelFor(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-events:%s", sessionID.String())
}

// PublishCombatStarted publishes a combat.started event
func (b *Broadcaster) PublishCombatStarted(ctx context.Context, sessionID uuid.UUID, requestID string, threatNames []string) error {
	event := Event{
		Type:      EventTypeCombatStarted,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"threats": threatNames,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishCombatEnded publishes a combat.ended event
func (b *Broadcaster) PublishCombatEnded(ctx context.Context, sessionID uuid.UUID, requestID string, lootCount int) error {
	event := Event{
		Type:      EventTypeCombatEnded,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"loot_count": lootCount,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishCheckResolved publishes a check.resolved event
func (b *Broadcaster) PublishCheckResolved(ctx context.Context, sessionID uuid.UUID, requestID string, skillOrAbility string, total int, success *bool) error {
	data := map[string]interface{}{
		"skill_or_ability": skillOrAbility,
		"total":            total,
	}
	if success != nil {
		data["success"] = *success
	}
	event := Event{
		Type:      EventTypeCheckResolved,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data:      data,
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishTurnAdvanced publishes a turn.advanced event
func (b *Broadcaster) PublishTurnAdvanced(ctx context.Context, sessionID uuid.UUID, round int, activeName string) error {
	event := Event{
		Type:      EventTypeTurnAdvanced,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"round":  round,
			"active": activeName,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// PublishRequestFailed publishes a request.failed event
func (b *Broadcaster) PublishRequestFailed(ctx context.Context, sessionID uuid.UUID, requestID string, errorMsg string) error {
	event := Event{
		Type:      EventTypeRequestFailed,
		RequestID: requestID,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"error": errorMsg,
		},
	}
	return b.publishToSession(ctx, sessionID, event)
}

// publishToSession publishes an event to the session-specific channel
func (b *Broadcaster) publishToSession(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := ChannelFor(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"request_id", event.RequestID,
	)

	return nil
}
