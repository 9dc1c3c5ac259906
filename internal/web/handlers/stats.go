package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"
)

// defaultStatsDays is the session stats window when none is requested.
const defaultStatsDays = 7

// StatsHandler reports store and gallery statistics.
type StatsHandler struct {
	engine *Engine
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(engine *Engine) *StatsHandler {
	return &StatsHandler{engine: engine}
}

// Get returns counts for the store and the live gallery.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	people, err := h.engine.People.CountPeople(ctx)
	if err != nil {
		log.Printf("Failed to count people: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	photos, err := h.engine.Photos.CountPhotos(ctx)
	if err != nil {
		log.Printf("Failed to count photos: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	vectors, err := h.engine.Photos.CountVectors(ctx)
	if err != nil {
		log.Printf("Failed to count vectors: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	sessions, err := h.engine.Sessions.CountSessions(ctx)
	if err != nil {
		log.Printf("Failed to count sessions: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}

	h.engine.Mu.Lock()
	gallerySize := h.engine.Pipeline.Gallery().Size()
	galleryPeople := h.engine.Pipeline.Gallery().UniquePersonCount()
	threshold := h.engine.Pipeline.Threshold()
	h.engine.Mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{
		"people":         people,
		"photos":         photos,
		"vectors":        vectors,
		"sessions":       sessions,
		"gallery_size":   gallerySize,
		"gallery_people": galleryPeople,
		"threshold":      threshold,
	})
}

type sessionStatsResponse struct {
	PersonID    int64     `json:"person_id"`
	DisplayName string    `json:"display_name"`
	Sessions    int       `json:"sessions"`
	AvgScore    float64   `json:"avg_score"`
	LastSeen    time.Time `json:"last_seen"`
}

// Sessions returns per-person recognition counts over the requested
// number of days.
func (h *StatsHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	days := defaultStatsDays
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 365 {
			days = n
		}
	}

	stats, err := h.engine.Sessions.SessionStats(r.Context(), days)
	if err != nil {
		log.Printf("Failed to get session stats: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to get session stats")
		return
	}

	out := make([]sessionStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, sessionStatsResponse{
			PersonID:    s.PersonID,
			DisplayName: s.DisplayName,
			Sessions:    s.Sessions,
			AvgScore:    s.AvgScore,
			LastSeen:    s.LastSeen,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"days": days, "stats": out})
}
