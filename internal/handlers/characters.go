package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ravenholt/encounter-engine/internal/storage"
)

type CharactersHandler struct {
	log     *slog.Logger
	storage storage.Storage
}

func NewCharactersHandler(log *slog.Logger, st storage.Storage) *CharactersHandler {
	return &CharactersHandler{
		log:     log,
		storage: st,
	}
}

func (h *CharactersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Path == "/v1/characters" || r.URL.Path == "/v1/characters/" {
			h.handleList(w, r)
		} else {
			h.handleGet(w, r)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleList lists all available character sheet files
func (h *CharactersHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListCharacterSheets(r.Context())
	if err != nil {
		h.log.Error("Failed to list character sheets", "error", err)
		http.Error(w, "Failed to list characters", http.StatusInternalServerError)
		return
	}

	// Initialize as empty slice instead of nil
	summaries := make([]map[string]interface{}, 0)
	for _, id := range ids {
		sheet, err := h.storage.GetCharacterSheet(r.Context(), id)
		if err != nil {
			h.log.Warn("Failed to load character sheet", "error", err, "id", id)
			continue
		}

		summaries = append(summaries, map[string]interface{}{
			"id":    sheet.ID,
			"name":  sheet.Name,
			"class": sheet.Class,
			"level": sheet.Level,
		})
	}

	data, err := json.Marshal(summaries)
	if err != nil {
		h.log.Error("Failed to marshal character list", "error", err)
		http.Error(w, "Failed to process character list", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Error("Failed to write character list response", "error", err)
	}
}

func (h *CharactersHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/characters/")
	id := strings.TrimSpace(path)

	if id == "" || id == "/" {
		http.Error(w, "Character ID is required in URL path (e.g., /v1/characters/mira)", http.StatusBadRequest)
		return
	}

	// Security: prevent directory traversal
	if strings.Contains(id, "..") || strings.Contains(id, "/") {
		http.Error(w, "Invalid character ID", http.StatusBadRequest)
		return
	}

	sheet, err := h.storage.GetCharacterSheet(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrSheetNotFound) {
			http.Error(w, "Character not found", http.StatusNotFound)
			return
		}
		h.log.Error("Failed to load character sheet", "error", err, "id", id)
		http.Error(w, "Failed to load character", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(sheet)
	if err != nil {
		h.log.Error("Failed to marshal character sheet", "error", err, "id", id)
		http.Error(w, "Failed to process character", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Error("Failed to write response", "error", err, "id", id)
	}
}
