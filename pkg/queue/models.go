package queue

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FragmentRequest is one narrative fragment queued for processing.
// Producers (the API, the console, upstream chat pipelines) enqueue
// these and the worker drains them in order.
type FragmentRequest struct {
	RequestID string    `json:"request_id"`
	SessionID uuid.UUID `json:"session_id"`

	// Text is the raw narrative fragment to run through the engine.
	Text string `json:"text"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewFragmentRequest builds a request with a fresh request id and
// enqueue timestamp.
func NewFragmentRequest(sessionID uuid.UUID, text string) *FragmentRequest {
	return &FragmentRequest{
		RequestID:  uuid.New().String(),
		SessionID:  sessionID,
		Text:       text,
		EnqueuedAt: time.Now().UTC(),
	}
}

// MarshalJSON serializes the request for Redis storage.
func (r *FragmentRequest) MarshalJSON() ([]byte, error) {
	type Alias FragmentRequest
	return json.Marshal(&struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		SessionID: r.SessionID.String(),
		Alias:     (*Alias)(r),
	})
}

// UnmarshalJSON deserializes the request from Redis.
func (r *FragmentRequest) UnmarshalJSON(data []byte) error {
	type Alias FragmentRequest
	aux := &struct {
		SessionID string `json:"session_id"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	sessionID, err := uuid.Parse(aux.SessionID)
	if err != nil {
		return err
	}

	r.SessionID = sessionID
	return nil
}

// ToJSON converts the request to JSON bytes for Redis.
func (r *FragmentRequest) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes.
func FromJSON(data []byte) (*FragmentRequest, error) {
	var req FragmentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
