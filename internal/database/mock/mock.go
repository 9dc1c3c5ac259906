// Package mock provides an in-memory storage backend for tests and for
// running the server without PostgreSQL.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// Store is an in-memory implementation of every storage interface.
// Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	people   map[int64]*database.Person
	photos   map[int64]*database.Photo
	data     map[int64][]byte
	vectors  map[int64][]byte
	sessions []database.RecognitionSession
	settings map[string]string
	nextID   int64

	// Error injection for tests.
	PersonError  error
	PhotoError   error
	SessionError error
	SettingError error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		people:   make(map[int64]*database.Person),
		photos:   make(map[int64]*database.Photo),
		data:     make(map[int64][]byte),
		vectors:  make(map[int64][]byte),
		settings: make(map[string]string),
		nextID:   1,
	}
}

// Register wires the store as the active storage backend.
func Register(s *Store) {
	database.RegisterBackend(
		func() database.PersonWriter { return s },
		func() database.PhotoWriter { return s },
		func() database.SessionWriter { return s },
		func() database.SettingsStore { return s },
	)
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// GetPerson retrieves a person by ID.
func (s *Store) GetPerson(ctx context.Context, id int64) (*database.Person, error) {
	if s.PersonError != nil {
		return nil, s.PersonError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.people[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// ListPeople returns active people ordered by last name, first name.
func (s *Store) ListPeople(ctx context.Context) ([]database.Person, error) {
	if s.PersonError != nil {
		return nil, s.PersonError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var people []database.Person
	for _, p := range s.people {
		if p.IsActive {
			people = append(people, *p)
		}
	}
	sort.Slice(people, func(i, j int) bool {
		if people[i].LastName != people[j].LastName {
			return people[i].LastName < people[j].LastName
		}
		if people[i].FirstName != people[j].FirstName {
			return people[i].FirstName < people[j].FirstName
		}
		return people[i].ID < people[j].ID
	})
	return people, nil
}

// SearchPeople returns active people whose normalized name contains the term.
func (s *Store) SearchPeople(ctx context.Context, term string) ([]database.Person, error) {
	people, err := s.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	normalized := recognizer.NormalizePersonName(term)
	var found []database.Person
	for _, p := range people {
		if strings.Contains(recognizer.NormalizePersonName(p.DisplayName()), normalized) {
			found = append(found, p)
		}
	}
	return found, nil
}

// CountPeople returns the number of active people.
func (s *Store) CountPeople(ctx context.Context) (int, error) {
	people, err := s.ListPeople(ctx)
	if err != nil {
		return 0, err
	}
	return len(people), nil
}

// AddPerson inserts a person and returns the assigned ID.
func (s *Store) AddPerson(ctx context.Context, p *database.Person) (int64, error) {
	if s.PersonError != nil {
		return 0, s.PersonError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	cp.ID = s.allocID()
	cp.IsActive = true
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	s.people[cp.ID] = &cp
	return cp.ID, nil
}

// UpdatePerson updates an existing person.
func (s *Store) UpdatePerson(ctx context.Context, p *database.Person) error {
	if s.PersonError != nil {
		return s.PersonError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.people[p.ID]
	if !ok {
		return database.ErrNotFound
	}
	existing.FirstName = p.FirstName
	existing.LastName = p.LastName
	existing.Notes = p.Notes
	existing.UpdatedAt = time.Now()
	return nil
}

// DeletePerson soft-deletes a person.
func (s *Store) DeletePerson(ctx context.Context, id int64) error {
	if s.PersonError != nil {
		return s.PersonError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.people[id]
	if !ok || !p.IsActive {
		return database.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	return nil
}

// GetPhoto retrieves photo metadata by ID.
func (s *Store) GetPhoto(ctx context.Context, photoID int64) (*database.Photo, error) {
	if s.PhotoError != nil {
		return nil, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.photos[photoID]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *p
	cp.HasVector = s.vectors[photoID] != nil
	return &cp, nil
}

// ListPhotos returns a person's photos primary-first, then newest-first.
func (s *Store) ListPhotos(ctx context.Context, personID int64) ([]database.Photo, error) {
	if s.PhotoError != nil {
		return nil, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var photos []database.Photo
	for _, p := range s.photos {
		if p.PersonID == personID {
			cp := *p
			cp.HasVector = s.vectors[p.ID] != nil
			photos = append(photos, cp)
		}
	}
	sort.Slice(photos, func(i, j int) bool {
		if photos[i].IsPrimary != photos[j].IsPrimary {
			return photos[i].IsPrimary
		}
		if !photos[i].CreatedAt.Equal(photos[j].CreatedAt) {
			return photos[i].CreatedAt.After(photos[j].CreatedAt)
		}
		return photos[i].ID < photos[j].ID
	})
	return photos, nil
}

// GetPhotoData returns the raw image bytes for a photo.
func (s *Store) GetPhotoData(ctx context.Context, photoID int64) ([]byte, error) {
	if s.PhotoError != nil {
		return nil, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.data[photoID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return data, nil
}

// LoadVector returns the stored vector bytes, or nil when absent.
func (s *Store) LoadVector(ctx context.Context, photoID int64) ([]byte, error) {
	if s.PhotoError != nil {
		return nil, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.photos[photoID]; !ok {
		return nil, database.ErrNotFound
	}
	return s.vectors[photoID], nil
}

// FindSimilar returns the photos nearest to the query by cosine distance.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, limit int) ([]database.VectorMatch, error) {
	if s.PhotoError != nil {
		return nil, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []database.VectorMatch
	for id, data := range s.vectors {
		stored, err := facevec.Decode(data)
		if err != nil {
			continue
		}
		photo, ok := s.photos[id]
		if !ok {
			continue
		}
		matches = append(matches, database.VectorMatch{
			PhotoID:  id,
			PersonID: photo.PersonID,
			Distance: facevec.CosineDistance(vector, stored),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].PhotoID < matches[j].PhotoID
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CountPhotos returns the total number of photos stored.
func (s *Store) CountPhotos(ctx context.Context) (int, error) {
	if s.PhotoError != nil {
		return 0, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.photos), nil
}

// CountVectors returns the number of photos with a stored vector.
func (s *Store) CountVectors(ctx context.Context) (int, error) {
	if s.PhotoError != nil {
		return 0, s.PhotoError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}

// AddPhoto stores an image for a person and returns the photo ID.
func (s *Store) AddPhoto(
	ctx context.Context, personID int64, data []byte, format string, isPrimary bool,
) (int64, error) {
	if s.PhotoError != nil {
		return 0, s.PhotoError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if isPrimary {
		for _, p := range s.photos {
			if p.PersonID == personID {
				p.IsPrimary = false
			}
		}
	}

	id := s.allocID()
	s.photos[id] = &database.Photo{
		ID:        id,
		PersonID:  personID,
		Format:    format,
		IsPrimary: isPrimary,
		CreatedAt: time.Now(),
	}
	s.data[id] = data
	return id, nil
}

// DeletePhoto removes a photo and its vector.
func (s *Store) DeletePhoto(ctx context.Context, photoID int64) error {
	if s.PhotoError != nil {
		return s.PhotoError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photoID]; !ok {
		return database.ErrNotFound
	}
	delete(s.photos, photoID)
	delete(s.data, photoID)
	delete(s.vectors, photoID)
	return nil
}

// SetPrimaryPhoto marks a photo as its person's primary photo.
func (s *Store) SetPrimaryPhoto(ctx context.Context, photoID int64) error {
	if s.PhotoError != nil {
		return s.PhotoError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.photos[photoID]
	if !ok {
		return database.ErrNotFound
	}
	for _, p := range s.photos {
		if p.PersonID == target.PersonID {
			p.IsPrimary = p.ID == photoID
		}
	}
	return nil
}

// SaveVector stores the serialized feature vector for a photo.
func (s *Store) SaveVector(ctx context.Context, photoID int64, data []byte) error {
	if s.PhotoError != nil {
		return s.PhotoError
	}
	if _, err := facevec.Decode(data); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[photoID]; !ok {
		return database.ErrNotFound
	}
	s.vectors[photoID] = data
	return nil
}

// AddSession records one above-threshold recognition.
func (s *Store) AddSession(ctx context.Context, sess *database.RecognitionSession) error {
	if s.SessionError != nil {
		return s.SessionError
	}
	if sess.UID == "" {
		sess.UID = uuid.NewString()
	}
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, *sess)
	return nil
}

// SessionStats aggregates sessions per person over the last N days.
func (s *Store) SessionStats(ctx context.Context, days int) ([]database.PersonStats, error) {
	if s.SessionError != nil {
		return nil, s.SessionError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -days)
	agg := make(map[int64]*database.PersonStats)
	for _, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			continue
		}
		st, ok := agg[sess.PersonID]
		if !ok {
			st = &database.PersonStats{PersonID: sess.PersonID}
			if p, ok := s.people[sess.PersonID]; ok {
				st.DisplayName = p.DisplayName()
			}
			agg[sess.PersonID] = st
		}
		st.AvgScore = (st.AvgScore*float64(st.Sessions) + sess.Score) / float64(st.Sessions+1)
		st.Sessions++
		if sess.CreatedAt.After(st.LastSeen) {
			st.LastSeen = sess.CreatedAt
		}
	}

	var stats []database.PersonStats
	for _, st := range agg {
		stats = append(stats, *st)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Sessions != stats[j].Sessions {
			return stats[i].Sessions > stats[j].Sessions
		}
		return stats[i].PersonID < stats[j].PersonID
	})
	return stats, nil
}

// CountSessions returns the total number of logged sessions.
func (s *Store) CountSessions(ctx context.Context) (int, error) {
	if s.SessionError != nil {
		return 0, s.SessionError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions), nil
}

// CleanupSessions deletes sessions older than the given number of days.
func (s *Store) CleanupSessions(ctx context.Context, olderThanDays int) (int64, error) {
	if s.SessionError != nil {
		return 0, s.SessionError
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -olderThanDays)
	var kept []database.RecognitionSession
	var removed int64
	for _, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, sess)
	}
	s.sessions = kept
	return removed, nil
}

// GetSetting returns the value for a key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	if s.SettingError != nil {
		return "", s.SettingError
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.settings[key]
	if !ok {
		return "", database.ErrNotFound
	}
	return v, nil
}

// SetSetting stores or replaces the value for a key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	if s.SettingError != nil {
		return s.SettingError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[key] = value
	return nil
}

// Verify interface compliance.
var (
	_ database.PersonWriter  = (*Store)(nil)
	_ database.PhotoWriter   = (*Store)(nil)
	_ database.SessionWriter = (*Store)(nil)
	_ database.SettingsStore = (*Store)(nil)
)
