package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/kaleidoid/internal/database"
)

// PeopleHandler manages identity records.
type PeopleHandler struct {
	engine *Engine
}

// NewPeopleHandler creates a new people handler.
func NewPeopleHandler(engine *Engine) *PeopleHandler {
	return &PeopleHandler{engine: engine}
}

type personResponse struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DisplayName string    `json:"display_name"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type personRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Notes     string `json:"notes"`
}

func toPersonResponse(p database.Person) personResponse {
	return personResponse{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DisplayName: p.DisplayName(),
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// List returns all active people, filtered by the q parameter when given.
func (h *PeopleHandler) List(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		people []database.Person
		err    error
	)
	if term != "" {
		people, err = h.engine.People.SearchPeople(r.Context(), term)
	} else {
		people, err = h.engine.People.ListPeople(r.Context())
	}
	if err != nil {
		log.Printf("Failed to list people: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to list people")
		return
	}

	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	respondJSON(w, http.StatusOK, map[string]any{"people": out})
}

// Get returns one person with their photos.
func (h *PeopleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid person ID")
		return
	}

	person, err := h.engine.People.GetPerson(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		log.Printf("Failed to get person %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to get person")
		return
	}

	photos, err := h.engine.Photos.ListPhotos(r.Context(), id)
	if err != nil {
		log.Printf("Failed to list photos for person %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to list photos")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"person": toPersonResponse(*person),
		"photos": toPhotoResponses(photos),
	})
}

// Create adds a new person.
func (h *PeopleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.FirstName) == "" && strings.TrimSpace(req.LastName) == "" {
		respondError(w, http.StatusBadRequest, "a name is required")
		return
	}

	person := &database.Person{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Notes:     req.Notes,
	}
	id, err := h.engine.People.AddPerson(r.Context(), person)
	if err != nil {
		log.Printf("Failed to add person: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to add person")
		return
	}
	person.ID = id

	log.Printf("Added person %d (%s)", id, sanitizeForLog(person.DisplayName()))
	respondJSON(w, http.StatusCreated, toPersonResponse(*person))
}

// Update modifies a person's names and notes. Gallery display names are
// refreshed so subsequent matches report the new name.
func (h *PeopleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid person ID")
		return
	}

	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	person := &database.Person{
		ID:        id,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Notes:     req.Notes,
	}
	err = h.engine.People.UpdatePerson(r.Context(), person)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		log.Printf("Failed to update person %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to update person")
		return
	}

	h.refreshDisplayName(id, person.DisplayName())
	respondJSON(w, http.StatusOK, toPersonResponse(*person))
}

// refreshDisplayName rewrites the display name on the person's gallery
// entries in place.
func (h *PeopleHandler) refreshDisplayName(personID int64, displayName string) {
	h.engine.Mu.Lock()
	defer h.engine.Mu.Unlock()

	gallery := h.engine.Pipeline.Gallery()
	for _, e := range gallery.Entries() {
		if e.PersonID == personID {
			e.DisplayName = displayName
			gallery.Upsert(e)
			h.engine.Neighbors.Add(e)
		}
	}
}

// Delete soft-deletes a person and drops their entries from the live
// gallery and the similarity index.
func (h *PeopleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid person ID")
		return
	}

	err = h.engine.People.DeletePerson(r.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		log.Printf("Failed to delete person %d: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to delete person")
		return
	}

	h.engine.Mu.Lock()
	gallery := h.engine.Pipeline.Gallery()
	for _, e := range gallery.Entries() {
		if e.PersonID == id {
			gallery.RemoveByPhotoID(e.PhotoID)
			h.engine.Neighbors.Delete(e.PhotoID)
		}
	}
	h.engine.Mu.Unlock()

	log.Printf("Deleted person %d", id)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
