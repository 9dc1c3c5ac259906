package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/kaleidoid/internal/database"
)

// SettingsHandler exposes the tunable recognition threshold.
type SettingsHandler struct {
	engine *Engine
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(engine *Engine) *SettingsHandler {
	return &SettingsHandler{engine: engine}
}

type thresholdRequest struct {
	Threshold float64 `json:"threshold"`
}

// GetThreshold returns the active recognition threshold.
func (h *SettingsHandler) GetThreshold(w http.ResponseWriter, r *http.Request) {
	h.engine.Mu.Lock()
	threshold := h.engine.Pipeline.Threshold()
	h.engine.Mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]float64{"threshold": threshold})
}

// SetThreshold updates the recognition threshold and persists it.
// The live pipeline is updated first; persistence failures are logged
// but do not undo the change.
func (h *SettingsHandler) SetThreshold(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	h.engine.Mu.Lock()
	err := h.engine.Pipeline.SetThreshold(req.Threshold)
	h.engine.Mu.Unlock()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = database.SetFloatSetting(r.Context(), h.engine.Settings,
		database.SettingRecognitionThreshold, req.Threshold)
	if err != nil {
		log.Printf("Failed to persist threshold: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]float64{"threshold": req.Threshold})
}
