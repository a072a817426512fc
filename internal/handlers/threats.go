package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ravenholt/encounter-engine/pkg/bestiary"
	"github.com/ravenholt/encounter-engine/pkg/dice"
	"github.com/ravenholt/encounter-engine/pkg/rules"
)

// ThreatsHandler exposes the creature template table. GET on a named
// type rolls a fresh stat block, so repeated calls vary within the
// template's ranges.
type ThreatsHandler struct {
	logger    *slog.Logger
	generator *bestiary.Generator
}

func NewThreatsHandler(logger *slog.Logger) *ThreatsHandler {
	return &ThreatsHandler{
		logger:    logger,
		generator: bestiary.NewGenerator(dice.Default()),
	}
}

func (h *ThreatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if r.URL.Path == "/v1/threats" || r.URL.Path == "/v1/threats/" {
			h.handleList(w, r)
		} else {
			h.handleSynthesize(w, r)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ThreatsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"threats": bestiary.KnownTypes(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *ThreatsHandler) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/threats/")
	typeName := rules.Normalize(strings.ReplaceAll(path, "_", " "))

	if typeName == "" || typeName == "/" {
		http.Error(w, "Threat type is required in URL path (e.g., /v1/threats/goblin)", http.StatusBadRequest)
		return
	}

	if strings.Contains(typeName, "..") || strings.Contains(typeName, "/") {
		http.Error(w, "Invalid threat type", http.StatusBadRequest)
		return
	}

	if _, ok := bestiary.TemplateFor(typeName); !ok {
		http.Error(w, "Threat type not found", http.StatusNotFound)
		return
	}

	threat := h.generator.SynthesizeThreat(typeName)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(threat); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
