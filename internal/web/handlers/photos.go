package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// PhotosHandler manages enrollment photos and their vectors.
type PhotosHandler struct {
	engine *Engine
}

// NewPhotosHandler creates a new photos handler.
func NewPhotosHandler(engine *Engine) *PhotosHandler {
	return &PhotosHandler{engine: engine}
}

type photoResponse struct {
	ID        int64     `json:"id"`
	PersonID  int64     `json:"person_id"`
	Format    string    `json:"format"`
	IsPrimary bool      `json:"is_primary"`
	HasVector bool      `json:"has_vector"`
	CreatedAt time.Time `json:"created_at"`
}

func toPhotoResponses(photos []database.Photo) []photoResponse {
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, photoResponse{
			ID:        p.ID,
			PersonID:  p.PersonID,
			Format:    p.Format,
			IsPrimary: p.IsPrimary,
			HasVector: p.HasVector,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// Enroll stores an uploaded photo for a person, extracts its vector and
// adds it to the live gallery. The photo is stored even when no face was
// found; it can be re-trained later.
func (h *PhotosHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	personID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid person ID")
		return
	}

	person, err := h.engine.People.GetPerson(r.Context(), personID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		log.Printf("Failed to get person %d: %v", personID, err)
		respondError(w, http.StatusInternalServerError, "failed to get person")
		return
	}

	img, data, format, err := readImageUpload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	isPrimary := r.FormValue("primary") == "true"

	photoID, err := h.engine.Photos.AddPhoto(r.Context(), personID, data, format, isPrimary)
	if err != nil {
		log.Printf("Failed to store photo for person %d: %v", personID, err)
		respondError(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	h.engine.Mu.Lock()
	vec := h.engine.Pipeline.ExtractPrimary(r.Context(), img)
	enrolled := vec != nil
	if enrolled {
		entry := recognizer.Entry{
			PersonID:    personID,
			PhotoID:     photoID,
			DisplayName: person.DisplayName(),
			Vector:      vec,
		}
		h.engine.Pipeline.Gallery().Upsert(entry)
		h.engine.Neighbors.Add(entry)
	}
	h.engine.Mu.Unlock()

	if enrolled {
		if err := h.engine.Photos.SaveVector(r.Context(), photoID, facevec.Encode(vec)); err != nil {
			log.Printf("Failed to save vector for photo %d: %v", photoID, err)
		}
	} else {
		log.Printf("Photo %d: no usable face found, stored without vector", photoID)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"photo_id": photoID,
		"enrolled": enrolled,
	})
}

// Delete removes a photo, its vector, and its gallery entry.
func (h *PhotosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseIDParam(r, "photoID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid photo ID")
		return
	}

	err = h.engine.Photos.DeletePhoto(r.Context(), photoID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		log.Printf("Failed to delete photo %d: %v", photoID, err)
		respondError(w, http.StatusInternalServerError, "failed to delete photo")
		return
	}

	h.engine.Mu.Lock()
	h.engine.Pipeline.Gallery().RemoveByPhotoID(photoID)
	h.engine.Neighbors.Delete(photoID)
	h.engine.Mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SetPrimary marks a photo as its person's primary photo.
func (h *PhotosHandler) SetPrimary(w http.ResponseWriter, r *http.Request) {
	photoID, err := parseIDParam(r, "photoID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid photo ID")
		return
	}

	err = h.engine.Photos.SetPrimaryPhoto(r.Context(), photoID)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "photo not found")
		return
	}
	if err != nil {
		log.Printf("Failed to set primary photo %d: %v", photoID, err)
		respondError(w, http.StatusInternalServerError, "failed to set primary photo")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
