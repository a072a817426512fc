package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravenholt/encounter-engine/internal/services/events"
	"github.com/ravenholt/encounter-engine/internal/storage"
	"github.com/ravenholt/encounter-engine/pkg/actor"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func testSheet() *actor.CharacterSheet {
	return &actor.CharacterSheet{
		ID:    "mira",
		Name:  "Mira",
		Class: "rogue",
		Level: 3,
		Stats: actor.Stats5e{
			Strength: 10, Dexterity: 16, Constitution: 12,
			Intelligence: 10, Wisdom: 14, Charisma: 10,
		},
		HP: 21, MaxHP: 21, AC: 14,
	}
}

func newTestHandler() (*SessionsHandler, *storage.MockStorage) {
	st := storage.NewMockStorage()
	h := NewSessionsHandler(testLogger(), st, nil, true, false)
	return h, st
}

func createSession(t *testing.T, h *SessionsHandler, body CreateSessionRequest) storage.SessionRecord {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var rec storage.SessionRecord
	require.NoError(t, json.NewDecoder(w.Body).Decode(&rec))
	return rec
}

func postJSON(t *testing.T, h *SessionsHandler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestSessionsHandler_Create(t *testing.T) {
	h, _ := newTestHandler()

	rec := createSession(t, h, CreateSessionRequest{
		Party: []*actor.CharacterSheet{testSheet()},
	})

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Len(t, rec.Party, 1)
	assert.True(t, rec.AutoResolve, "handler default should apply")
	assert.False(t, rec.BracketNotation)
	assert.NotNil(t, rec.Combat)
	assert.False(t, rec.Combat.InCombat)
}

func TestSessionsHandler_CreateWithCharacterIDs(t *testing.T) {
	h, st := newTestHandler()
	st.SetCharacterSheet("mira", testSheet())

	rec := createSession(t, h, CreateSessionRequest{
		CharacterIDs: []string{"mira"},
	})

	require.Len(t, rec.Party, 1)
	assert.Equal(t, "Mira", rec.Party[0].Name)
}

func TestSessionsHandler_CreateUnknownCharacter(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h, "/v1/sessions", CreateSessionRequest{
		CharacterIDs: []string{"nobody"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsHandler_CreateOverridesDefaults(t *testing.T) {
	h, _ := newTestHandler()

	off := false
	rec := createSession(t, h, CreateSessionRequest{
		Party:       []*actor.CharacterSheet{testSheet()},
		AutoResolve: &off,
	})

	assert.False(t, rec.AutoResolve)
}

func TestSessionsHandler_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
	assert.Equal(t, "Invalid JSON in request body", errResp.Error)
}

func TestSessionsHandler_GetNotFound(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsHandler_InvalidID(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsHandler_Delete(t *testing.T) {
	h, st := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+rec.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	stored, err := st.LoadSession(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionsHandler_NarrativeStartsCombat(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/narrative", NarrativeRequest{
		Text: "Two goblins leap from the rocks. Roll for initiative!",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp NarrativeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Result.StartedCombat)
	require.Len(t, resp.Result.Threats, 1)
	assert.Equal(t, "goblin", resp.Result.Threats[0].Name)
	require.NotNil(t, resp.Session.Combat)
	assert.True(t, resp.Session.Combat.InCombat)
	assert.Len(t, resp.Session.Combat.Participants, 2)
}

func TestSessionsHandler_NarrativeEmptyText(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/narrative", NarrativeRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsHandler_CheckEndpoint(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	dc := 10
	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/checks", CheckRequest{
		SkillOrAbility:  "stealth",
		CharacterID:     "mira",
		DifficultyClass: &dc,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))

	assert.Equal(t, "mira", result["character_id"])
	// Stealth for a level 3 rogue with dex 16: +3 ability, +2 proficiency
	assert.Equal(t, float64(5), result["modifier"])
	assert.NotNil(t, result["success"], "DC present, success must be judged")
}

func TestSessionsHandler_CheckMissingSkill(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/checks", CheckRequest{CharacterID: "mira"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionsHandler_TurnRequiresCombat(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/turn", struct{}{})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionsHandler_CombatLifecycle(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})
	base := "/v1/sessions/" + rec.ID.String()

	// Enter combat
	w := postJSON(t, h, base+"/narrative", NarrativeRequest{Text: "A goblin attacks you!"})
	require.Equal(t, http.StatusOK, w.Code)

	// Damage the party member
	w = postJSON(t, h, base+"/damage", HPChangeRequest{ParticipantID: "mira", Amount: 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, float64(16), p["hp"])

	// Heal past max clamps
	w = postJSON(t, h, base+"/heal", HPChangeRequest{ParticipantID: "mira", Amount: 99})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Equal(t, float64(21), p["hp"])

	// Add a condition
	w = postJSON(t, h, base+"/conditions", ConditionRequest{ParticipantID: "mira", Condition: "poisoned"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&p))
	assert.Contains(t, p["conditions"], "poisoned")

	// Remove it
	data, _ := json.Marshal(ConditionRequest{ParticipantID: "mira", Condition: "poisoned"})
	req := httptest.NewRequest(http.MethodDelete, base+"/conditions", bytes.NewReader(data))
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&p))
	assert.NotContains(t, p["conditions"], "poisoned")

	// Advance the turn
	w = postJSON(t, h, base+"/turn", struct{}{})
	assert.Equal(t, http.StatusOK, w.Code)

	// End combat
	w = postJSON(t, h, base+"/narrative", NarrativeRequest{
		Text: "You are victorious! You find 12 gold pieces.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp NarrativeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Result.EndedCombat)
	assert.False(t, resp.Session.Combat.InCombat)
	assert.NotEmpty(t, resp.Result.Loot)
}

func TestSessionsHandler_TurnPublishesEvent(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	st := storage.NewMockStorage()
	h := NewSessionsHandler(testLogger(), st, events.NewBroadcaster(client, testLogger()), true, false)
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})
	base := "/v1/sessions/" + rec.ID.String()

	w := postJSON(t, h, base+"/narrative", NarrativeRequest{Text: "A goblin attacks you!"})
	require.Equal(t, http.StatusOK, w.Code)

	ctx := context.Background()
	sub := client.Subscribe(ctx, events.ChannelFor(rec.ID))
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	w = postJSON(t, h, base+"/turn", struct{}{})
	require.Equal(t, http.StatusOK, w.Code)

	select {
	case msg := <-sub.Channel():
		var event events.Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
		assert.Equal(t, events.EventTypeTurnAdvanced, event.Type)
		assert.Equal(t, rec.ID.String(), event.SessionID)
		assert.NotEmpty(t, event.Data["active"])
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for turn event")
	}
}

func TestSessionsHandler_DamageUnknownParticipant(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/damage",
		HPChangeRequest{ParticipantID: "nobody", Amount: 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsHandler_UnknownSubroute(t *testing.T) {
	h, _ := newTestHandler()
	rec := createSession(t, h, CreateSessionRequest{Party: []*actor.CharacterSheet{testSheet()}})

	w := postJSON(t, h, "/v1/sessions/"+rec.ID.String()+"/teleport", struct{}{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
