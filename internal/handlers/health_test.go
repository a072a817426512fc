package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ravenholt/encounter-engine/internal/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name            string
		setupStorage    func() *storage.MockStorage
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
	}{
		{
			name: "healthy",
			setupStorage: func() *storage.MockStorage {
				st := storage.NewMockStorage()
				st.SetPingSuccess()
				return st
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
		},
		{
			name: "unhealthy storage",
			setupStorage: func() *storage.MockStorage {
				st := storage.NewMockStorage()
				st.SetPingError(errors.New("connection failed"))
				return st
			},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStorage(), testLogger())

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if resp.Status != tt.expectedHealth {
				t.Errorf("health = %q, want %q", resp.Status, tt.expectedHealth)
			}
			if resp.Components["storage"] != tt.expectedStorage {
				t.Errorf("storage component = %v, want %q", resp.Components["storage"], tt.expectedStorage)
			}
			if resp.Service != "encounter-engine" {
				t.Errorf("service = %q, want encounter-engine", resp.Service)
			}
		})
	}
}
