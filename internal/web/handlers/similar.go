package handlers

import (
	"log"
	"net/http"
	"strconv"
)

// defaultSimilarLimit is the number of neighbors returned when the
// request does not specify one.
const defaultSimilarLimit = 10

// SimilarHandler answers nearest-neighbor queries against the index.
type SimilarHandler struct {
	engine *Engine
}

// NewSimilarHandler creates a new similar-faces handler.
func NewSimilarHandler(engine *Engine) *SimilarHandler {
	return &SimilarHandler{engine: engine}
}

type similarFaceResponse struct {
	PersonID    int64   `json:"person_id"`
	PhotoID     int64   `json:"photo_id"`
	DisplayName string  `json:"display_name"`
	Distance    float64 `json:"distance"`
}

// Find extracts a vector from the uploaded image and returns the most
// similar enrolled faces by cosine distance. Unlike recognition this
// has no threshold; it answers "who looks like this" even for strangers.
func (h *SimilarHandler) Find(w http.ResponseWriter, r *http.Request) {
	img, _, _, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	limit := defaultSimilarLimit
	if s := r.FormValue("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	h.engine.Mu.Lock()
	vec := h.engine.Pipeline.ExtractPrimary(r.Context(), img)
	h.engine.Mu.Unlock()
	if vec == nil {
		respondError(w, http.StatusUnprocessableEntity, "no usable face found in image")
		return
	}

	neighbors, err := h.engine.Neighbors.Search(vec, limit)
	if err != nil {
		log.Printf("Neighbor search failed: %v", err)
		respondError(w, http.StatusServiceUnavailable, "similarity index not ready")
		return
	}

	out := make([]similarFaceResponse, 0, len(neighbors))
	for _, n := range neighbors {
		out = append(out, similarFaceResponse{
			PersonID:    n.Entry.PersonID,
			PhotoID:     n.Entry.PhotoID,
			DisplayName: n.Entry.DisplayName,
			Distance:    n.Distance,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"faces": out})
}
