package handlers

import (
	"sync"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// Engine bundles the shared recognition state and repositories the
// handlers operate on. The pipeline and its gallery do no locking of
// their own, so every handler touching them must hold Mu.
type Engine struct {
	Mu        sync.Mutex
	Pipeline  *recognizer.Pipeline
	Neighbors *recognizer.NeighborIndex

	People   database.PersonWriter
	Photos   database.PhotoWriter
	Sessions database.SessionWriter
	Settings database.SettingsStore

	// CameraID is recorded with recognition sessions.
	CameraID string
}
