package handlers

import (
	"log"
	"net/http"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// RecognizeHandler runs the recognition pipeline on uploaded frames.
type RecognizeHandler struct {
	engine *Engine
}

// NewRecognizeHandler creates a new recognition handler.
func NewRecognizeHandler(engine *Engine) *RecognizeHandler {
	return &RecognizeHandler{engine: engine}
}

// Recognize runs one frame through the pipeline and returns an outcome
// per detected face. Matches are logged as recognition sessions; a
// session logging failure never fails the request.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	img, _, _, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	h.engine.Mu.Lock()
	outcomes, err := h.engine.Pipeline.RecognizeAll(r.Context(), img)
	h.engine.Mu.Unlock()
	if err != nil {
		log.Printf("Recognition failed: %v", err)
		respondError(w, http.StatusBadGateway, "face detection failed")
		return
	}

	for _, o := range outcomes {
		if !o.Matched {
			continue
		}
		session := &database.RecognitionSession{
			PersonID: o.PersonID,
			Score:    o.Score,
			CameraID: h.engine.CameraID,
		}
		if err := h.engine.Sessions.AddSession(r.Context(), session); err != nil {
			log.Printf("Failed to log recognition session for person %d: %v", o.PersonID, err)
		}
	}

	if outcomes == nil {
		outcomes = []recognizer.FaceOutcome{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"faces": outcomes})
}
