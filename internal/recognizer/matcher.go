package recognizer

import (
	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// MatchResult is the outcome of resolving a query vector against the
// gallery. PersonID, PhotoID and DisplayName are meaningful only when
// Matched is true. Score is always populated (0 when no candidate).
type MatchResult struct {
	PersonID    int64   `json:"person_id,omitempty"`
	PhotoID     int64   `json:"photo_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Score       float64 `json:"score"`
	Matched     bool    `json:"matched"`
}

// Match resolves a query vector to an identity by scanning the gallery
// in storage order. An entry wins when its similarity strictly exceeds
// both the threshold and the best score so far, so the first entry
// reaching a given maximum keeps it on ties. A zero query, an empty
// gallery, or no candidate above the threshold yields no identity and
// score 0. Zero gallery vectors carry no signal and are skipped.
//
// The threshold must already be validated to (0, 1] by configuration;
// Match does not defend against degenerate values.
func Match(query []float32, gallery *Gallery, threshold float64) MatchResult {
	if gallery == nil || gallery.Size() == 0 || facevec.IsZero(query) {
		return MatchResult{}
	}

	var best *Entry
	bestScore := 0.0

	for i := range gallery.entries {
		entry := &gallery.entries[i]
		if facevec.IsZero(entry.Vector) {
			continue
		}
		s := facevec.Similarity(query, entry.Vector)
		if s > bestScore && s > threshold {
			bestScore = s
			best = entry
		}
	}

	if best == nil {
		return MatchResult{}
	}

	return MatchResult{
		PersonID:    best.PersonID,
		PhotoID:     best.PhotoID,
		DisplayName: best.DisplayName,
		Score:       bestScore,
		Matched:     true,
	}
}
