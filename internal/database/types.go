package database

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Setting keys stored in system_settings.
const (
	SettingRecognitionThreshold   = "recognition_threshold"
	SettingMinDetectionConfidence = "min_detection_confidence"
)

// Person represents an identity known to the system.
type Person struct {
	ID        int64
	FirstName string
	LastName  string
	Notes     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the human-readable label for a person.
// Informational only, never used for matching.
func (p Person) DisplayName() string {
	return strings.TrimSpace(p.LastName + " " + p.FirstName)
}

// Photo represents one stored image of a person; the unit of vector storage.
type Photo struct {
	ID        int64
	PersonID  int64
	Format    string
	IsPrimary bool
	HasVector bool
	CreatedAt time.Time
}

// RecognitionSession is one logged above-threshold match.
type RecognitionSession struct {
	UID       string
	PersonID  int64
	Score     float64
	CameraID  string
	CreatedAt time.Time
}

// PersonStats aggregates recognition sessions for one person.
type PersonStats struct {
	PersonID    int64
	DisplayName string
	Sessions    int
	AvgScore    float64
	LastSeen    time.Time
}

// VectorMatch is one nearest-neighbor result from the store.
type VectorMatch struct {
	PhotoID  int64
	PersonID int64
	Distance float64
}
