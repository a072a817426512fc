package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/internal/services/events"
	"github.com/ravenholt/encounter-engine/internal/storage"
	"github.com/ravenholt/encounter-engine/pkg/actor"
	"github.com/ravenholt/encounter-engine/pkg/engine"
	"github.com/ravenholt/encounter-engine/pkg/scanner"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// SessionsHandler handles HTTP requests for engine sessions
// Routes:
// POST /v1/sessions                      - Create new session
// GET /v1/sessions/{id}                  - Read session by ID
// DELETE /v1/sessions/{id}               - Delete session by ID
// POST /v1/sessions/{id}/narrative       - Process a narrative fragment
// POST /v1/sessions/{id}/checks          - Resolve a skill check
// POST /v1/sessions/{id}/turn            - Advance the combat turn
// POST /v1/sessions/{id}/damage          - Apply damage to a participant
// POST /v1/sessions/{id}/heal            - Apply healing to a participant
// POST/DELETE /v1/sessions/{id}/conditions - Add or remove a condition
type SessionsHandler struct {
	storage storage.Storage
	logger  *slog.Logger

	// events is optional; nil disables session event publishing.
	events *events.Broadcaster

	// Session defaults, overridable per session at creation.
	autoResolve     bool
	bracketNotation bool
}

func NewSessionsHandler(logger *slog.Logger, st storage.Storage, broadcaster *events.Broadcaster, autoResolve, bracketNotation bool) *SessionsHandler {
	return &SessionsHandler{
		storage:         st,
		logger:          logger,
		events:          broadcaster,
		autoResolve:     autoResolve,
		bracketNotation: bracketNotation,
	}
}

func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, sessionID)
		case http.MethodDelete:
			h.handleDelete(w, r, sessionID)
		default:
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}
		return
	}

	switch parts[1] {
	case "narrative":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleNarrative(w, r, sessionID)
	case "checks":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCheck(w, r, sessionID)
	case "turn":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleTurn(w, r, sessionID)
	case "damage":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleHPChange(w, r, sessionID, false)
	case "heal":
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleHPChange(w, r, sessionID, true)
	case "conditions":
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, DELETE")
			return
		}
		h.handleCondition(w, r, sessionID)
	default:
		h.writeError(w, http.StatusNotFound, "Unknown session operation: "+parts[1])
	}
}

// CreateSessionRequest defines the request body for creating a session.
// Party members come inline, by character id, or both.
type CreateSessionRequest struct {
	Party        []*actor.CharacterSheet `json:"party,omitempty"`
	CharacterIDs []string                `json:"character_ids,omitempty"`

	AutoResolve     *bool `json:"auto_resolve,omitempty"`
	BracketNotation *bool `json:"bracket_notation,omitempty"`
}

func (h *SessionsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("Creating new session")

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	party := req.Party
	for _, id := range req.CharacterIDs {
		sheet, err := h.storage.GetCharacterSheet(r.Context(), id)
		if err != nil {
			h.logger.Warn("Failed to load character sheet", "character_id", id, "error", err)
			h.writeError(w, http.StatusBadRequest, "Failed to load character sheet: "+id)
			return
		}
		party = append(party, sheet)
	}

	rec := storage.NewSessionRecord(party)
	rec.AutoResolve = h.autoResolve
	rec.BracketNotation = h.bracketNotation
	if req.AutoResolve != nil {
		rec.AutoResolve = *req.AutoResolve
	}
	if req.BracketNotation != nil {
		rec.BracketNotation = *req.BracketNotation
	}

	if err := h.storage.SaveSession(r.Context(), rec.ID, rec); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Info("Session created", "session_id", rec.ID, "party_size", len(party))
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, rec)
}

func (h *SessionsHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if rec == nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	h.writeJSON(w, rec)
}

func (h *SessionsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Info("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// NarrativeRequest carries one fragment of narrative text.
type NarrativeRequest struct {
	Text string `json:"text"`
}

// NarrativeResponse pairs the fragment outcome with the updated session.
type NarrativeResponse struct {
	Result  engine.FragmentResult  `json:"result"`
	Session *storage.SessionRecord `json:"session"`
}

func (h *SessionsHandler) handleNarrative(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req NarrativeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	rec, eng, ok := h.loadEngine(w, r, id)
	if !ok {
		return
	}

	result := eng.HandleFragment(req.Text)
	rec.Combat = eng.Session()

	if err := h.storage.SaveSession(r.Context(), id, rec); err != nil {
		h.logger.Error("Failed to save session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Debug("Fragment processed",
		"session_id", id,
		"started_combat", result.StartedCombat,
		"ended_combat", result.EndedCombat,
		"threats", len(result.Threats),
		"prompts", len(result.Prompts))

	h.writeJSON(w, NarrativeResponse{Result: result, Session: rec})
}

// CheckRequest resolves one named skill or ability check.
type CheckRequest struct {
	SkillOrAbility  string `json:"skill_or_ability"`
	CharacterID     string `json:"character_id"`
	DifficultyClass *int   `json:"dc,omitempty"`
}

func (h *SessionsHandler) handleCheck(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.SkillOrAbility == "" {
		h.writeError(w, http.StatusBadRequest, "skill_or_ability field is required")
		return
	}

	rec, eng, ok := h.loadEngine(w, r, id)
	if !ok {
		return
	}

	prompt := scanner.SkillCheckPrompt{
		ID:              uuid.New(),
		SkillOrAbility:  req.SkillOrAbility,
		DifficultyClass: req.DifficultyClass,
	}
	result := eng.ResolveCheck(prompt, req.CharacterID)
	rec.Combat = eng.Session()

	if err := h.storage.SaveSession(r.Context(), id, rec); err != nil {
		h.logger.Error("Failed to save session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.writeJSON(w, result)
}

func (h *SessionsHandler) handleTurn(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	rec, eng, ok := h.loadEngine(w, r, id)
	if !ok {
		return
	}

	session := eng.Session()
	if !session.InCombat {
		h.writeError(w, http.StatusConflict, "Session is not in combat")
		return
	}

	session.NextTurn()
	rec.Combat = session

	if err := h.storage.SaveSession(r.Context(), id, rec); err != nil {
		h.logger.Error("Failed to save session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if h.events != nil {
		activeName := ""
		if active := session.ActiveParticipant(); active != nil {
			activeName = active.Name
		}
		// Event delivery is best effort
		if err := h.events.PublishTurnAdvanced(r.Context(), id, session.Round, activeName); err != nil {
			h.logger.Warn("Failed to publish turn event", "session_id", id, "error", err)
		}
	}

	h.writeJSON(w, rec)
}

// HPChangeRequest applies damage or healing to one participant.
type HPChangeRequest struct {
	ParticipantID string `json:"participant_id"`
	Amount        int    `json:"amount"`
}

func (h *SessionsHandler) handleHPChange(w http.ResponseWriter, r *http.Request, id uuid.UUID, heal bool) {
	var req HPChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.ParticipantID == "" {
		h.writeError(w, http.StatusBadRequest, "participant_id field is required")
		return
	}
	if req.Amount <= 0 {
		h.writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	rec, eng, ok := h.loadEngine(w, r, id)
	if !ok {
		return
	}

	session := eng.Session()
	if session.Participant(req.ParticipantID) == nil {
		h.writeError(w, http.StatusNotFound, "Participant not found")
		return
	}

	if heal {
		session.ApplyHealing(req.ParticipantID, req.Amount)
	} else {
		session.ApplyDamage(req.ParticipantID, req.Amount)
	}
	rec.Combat = session

	if err := h.storage.SaveSession(r.Context(), id, rec); err != nil {
		h.logger.Error("Failed to save session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.writeJSON(w, session.Participant(req.ParticipantID))
}

// ConditionRequest adds (POST) or removes (DELETE) a condition.
type ConditionRequest struct {
	ParticipantID string `json:"participant_id"`
	Condition     string `json:"condition"`
}

func (h *SessionsHandler) handleCondition(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ConditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.ParticipantID == "" || req.Condition == "" {
		h.writeError(w, http.StatusBadRequest, "participant_id and condition fields are required")
		return
	}

	rec, eng, ok := h.loadEngine(w, r, id)
	if !ok {
		return
	}

	session := eng.Session()
	if session.Participant(req.ParticipantID) == nil {
		h.writeError(w, http.StatusNotFound, "Participant not found")
		return
	}

	if r.Method == http.MethodDelete {
		session.RemoveCondition(req.ParticipantID, req.Condition)
	} else {
		session.AddCondition(req.ParticipantID, req.Condition)
	}
	rec.Combat = session

	if err := h.storage.SaveSession(r.Context(), id, rec); err != nil {
		h.logger.Error("Failed to save session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.writeJSON(w, session.Participant(req.ParticipantID))
}

// loadEngine loads the session record and rebuilds its engine. On any
// failure it writes the error response and returns ok=false.
func (h *SessionsHandler) loadEngine(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*storage.SessionRecord, *engine.Engine, bool) {
	rec, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to load session")
		return nil, nil, false
	}
	if rec == nil {
		h.writeError(w, http.StatusNotFound, "Session not found")
		return nil, nil, false
	}

	eng := engine.Restore(rec.Party, rec.Combat, engine.Options{
		SupportsBracketNotation: rec.BracketNotation,
		AutoResolve:             rec.AutoResolve,
	})
	return rec, eng, true
}

func (h *SessionsHandler) writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *SessionsHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
