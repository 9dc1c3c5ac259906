package recognizer

// Entry associates one stored feature vector with its identity and
// source photo.
type Entry struct {
	PersonID    int64
	PhotoID     int64
	DisplayName string
	Vector      []float32
}

// Gallery is the ordered in-memory collection of known feature vectors,
// keyed by photo ID. Insertion order is significant: the matcher's
// tie-break returns the first entry reaching the best score, so the
// order set by Add and BulkLoad is part of the matching contract.
//
// The gallery performs no locking of its own; callers that mix
// enrollment and recognition across goroutines must serialize access.
type Gallery struct {
	entries []Entry
}

// NewGallery creates an empty gallery.
func NewGallery() *Gallery {
	return &Gallery{}
}

// Add appends an entry. A duplicate photo ID is appended as-is; callers
// that re-train an existing photo must use Upsert instead.
func (g *Gallery) Add(e Entry) {
	g.entries = append(g.entries, e)
}

// Upsert replaces any existing entry with the same photo ID, then
// appends. This is the enrollment path for re-training a known photo.
func (g *Gallery) Upsert(e Entry) {
	g.RemoveByPhotoID(e.PhotoID)
	g.Add(e)
}

// RemoveByPhotoID removes the first entry with the given photo ID and
// reports whether a removal occurred.
func (g *Gallery) RemoveByPhotoID(photoID int64) bool {
	for i := range g.entries {
		if g.entries[i].PhotoID == photoID {
			g.entries = append(g.entries[:i], g.entries[i+1:]...)
			return true
		}
	}
	return false
}

// BulkLoad clears the gallery and adds all entries in the given order.
func (g *Gallery) BulkLoad(entries []Entry) {
	g.Clear()
	g.entries = append(g.entries, entries...)
}

// Clear empties the gallery. Idempotent.
func (g *Gallery) Clear() {
	g.entries = nil
}

// Size returns the number of entries.
func (g *Gallery) Size() int {
	return len(g.entries)
}

// UniquePersonCount returns the number of distinct person IDs present.
func (g *Gallery) UniquePersonCount() int {
	seen := make(map[int64]struct{}, len(g.entries))
	for i := range g.entries {
		seen[g.entries[i].PersonID] = struct{}{}
	}
	return len(seen)
}

// Entries returns a copy of the entries in storage order.
func (g *Gallery) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	copy(out, g.entries)
	return out
}
