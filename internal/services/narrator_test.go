package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
)

func notifierLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestContinuationNotifier_NotifyContinue(t *testing.T) {
	campaignID := uuid.New()

	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewContinuationNotifier(srv.URL, notifierLogger())
	n.NotifyContinue(context.Background(), campaignID)

	wantPath := "/api/campaigns/" + campaignID.String() + "/action"
	if gotPath != wantPath {
		t.Errorf("path = %q, want %q", gotPath, wantPath)
	}
	if gotBody["action"] != "continue" {
		t.Errorf("body action = %q, want continue", gotBody["action"])
	}
}

func TestContinuationNotifier_ServerErrorDoesNotPanic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewContinuationNotifier(srv.URL, notifierLogger())
	// Must swallow the error
	n.NotifyContinue(context.Background(), uuid.New())
}

func TestContinuationNotifier_Disabled(t *testing.T) {
	n := NewContinuationNotifier("", notifierLogger())

	if n.Enabled() {
		t.Error("empty base URL should disable the notifier")
	}
	// No-op, must not panic
	n.NotifyContinue(context.Background(), uuid.New())
}

func TestContinuationNotifier_UnreachableHost(t *testing.T) {
	n := NewContinuationNotifier("http://127.0.0.1:1", notifierLogger())
	// Connection refused is logged, not returned
	n.NotifyContinue(context.Background(), uuid.New())
}
