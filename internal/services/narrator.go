package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContinuationNotifier pokes the upstream narrative service after a
// queued fragment finishes processing, so the story can continue
// without waiting on a human. Delivery is best effort: failures are
// logged and never propagate to fragment processing.
type ContinuationNotifier struct {
	baseURL    string
	logger     *slog.Logger
	httpClient *http.Client
}

// continuationAction is the request body the narrative service expects.
type continuationAction struct {
	Action string `json:"action"`
}

// NewContinuationNotifier creates a notifier for the given base URL.
// An empty base URL yields a disabled notifier.
func NewContinuationNotifier(baseURL string, logger *slog.Logger) *ContinuationNotifier {
	return &ContinuationNotifier{
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a narrative service is configured.
func (n *ContinuationNotifier) Enabled() bool {
	return n.baseURL != ""
}

// NotifyContinue tells the narrative service to continue the named
// campaign. Errors are logged, not returned.
func (n *ContinuationNotifier) NotifyContinue(ctx context.Context, campaignID uuid.UUID) {
	if !n.Enabled() {
		return
	}

	body, err := json.Marshal(continuationAction{Action: "continue"})
	if err != nil {
		n.logger.Error("Failed to marshal continuation action", "error", err)
		return
	}

	url := fmt.Sprintf("%s/api/campaigns/%s/action", n.baseURL, campaignID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to build continuation request", "error", err, "url", url)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("Continuation notification failed",
			"error", err,
			"campaign_id", campaignID)
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("Continuation notification rejected",
			"status", resp.StatusCode,
			"campaign_id", campaignID)
		return
	}

	n.logger.Debug("Continuation notification delivered", "campaign_id", campaignID)
}
