package database

import (
	"context"
)

// PersonReader provides read-only access to people records.
type PersonReader interface {
	// GetPerson retrieves a person by ID, ErrNotFound if missing.
	GetPerson(ctx context.Context, id int64) (*Person, error)
	// ListPeople returns all active people ordered by last name, first name.
	// This ordering feeds the gallery bulk load and is part of the
	// tie-break contract.
	ListPeople(ctx context.Context) ([]Person, error)
	// SearchPeople returns active people whose name matches the term.
	// Names are normalized before comparison (lowercase, no diacritics).
	SearchPeople(ctx context.Context, term string) ([]Person, error)
	// CountPeople returns the number of active people.
	CountPeople(ctx context.Context) (int, error)
}

// PersonWriter provides write access to people records.
type PersonWriter interface {
	PersonReader

	// AddPerson inserts a person and returns the assigned ID.
	AddPerson(ctx context.Context, p *Person) (int64, error)
	// UpdatePerson updates an existing person.
	UpdatePerson(ctx context.Context, p *Person) error
	// DeletePerson soft-deletes a person (is_active flag). Their photos
	// and vectors stay in place for potential reactivation.
	DeletePerson(ctx context.Context, id int64) error
}

// PhotoReader provides read-only access to photos and stored vectors.
type PhotoReader interface {
	// GetPhoto retrieves photo metadata by ID, ErrNotFound if missing.
	GetPhoto(ctx context.Context, photoID int64) (*Photo, error)
	// ListPhotos returns a person's photos ordered primary-first, then
	// newest-first. Part of the gallery tie-break contract.
	ListPhotos(ctx context.Context, personID int64) ([]Photo, error)
	// GetPhotoData returns the raw image bytes for a photo.
	GetPhotoData(ctx context.Context, photoID int64) ([]byte, error)
	// LoadVector returns the serialized feature vector for a photo as raw
	// little-endian float32 bytes, or nil when no vector is stored.
	LoadVector(ctx context.Context, photoID int64) ([]byte, error)
	// FindSimilar returns the photos whose stored vectors are nearest to
	// the query by cosine distance.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]VectorMatch, error)
	// CountPhotos returns the total number of photos stored.
	CountPhotos(ctx context.Context) (int, error)
	// CountVectors returns the number of photos with a stored vector.
	CountVectors(ctx context.Context) (int, error)
}

// PhotoWriter provides write access to photos and stored vectors.
type PhotoWriter interface {
	PhotoReader

	// AddPhoto stores an image for a person and returns the photo ID.
	AddPhoto(ctx context.Context, personID int64, data []byte, format string, isPrimary bool) (int64, error)
	// DeletePhoto removes a photo and its vector.
	DeletePhoto(ctx context.Context, photoID int64) error
	// SetPrimaryPhoto marks a photo as its person's primary photo,
	// clearing the flag on their other photos.
	SetPrimaryPhoto(ctx context.Context, photoID int64) error
	// SaveVector stores the serialized feature vector for a photo.
	// The data must decode to exactly the engine's vector dimension.
	SaveVector(ctx context.Context, photoID int64, data []byte) error
}

// SessionWriter logs and queries recognition sessions.
type SessionWriter interface {
	// AddSession records one above-threshold recognition.
	AddSession(ctx context.Context, s *RecognitionSession) error
	// SessionStats aggregates sessions per person over the last N days.
	SessionStats(ctx context.Context, days int) ([]PersonStats, error)
	// CountSessions returns the total number of logged sessions.
	CountSessions(ctx context.Context) (int, error)
	// CleanupSessions deletes sessions older than the given number of
	// days and returns the number removed.
	CleanupSessions(ctx context.Context, olderThanDays int) (int64, error)
}

// SettingsStore persists tunable engine parameters.
type SettingsStore interface {
	// GetSetting returns the value for a key, ErrNotFound if unset.
	GetSetting(ctx context.Context, key string) (string, error)
	// SetSetting stores or replaces the value for a key.
	SetSetting(ctx context.Context, key, value string) error
}
