package recognizer

import (
	"testing"

	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// unitVector returns a unit vector with a 1 at the given position.
func unitVector(pos int) []float32 {
	vec := make([]float32, facevec.Dim)
	vec[pos] = 1
	return vec
}

func TestGalleryAddAndSize(t *testing.T) {
	g := NewGallery()
	if g.Size() != 0 {
		t.Fatalf("new gallery size = %d, want 0", g.Size())
	}

	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})
	g.Add(Entry{PersonID: 1, PhotoID: 11, Vector: unitVector(1)})
	g.Add(Entry{PersonID: 2, PhotoID: 12, Vector: unitVector(2)})

	if g.Size() != 3 {
		t.Errorf("size = %d, want 3", g.Size())
	}
	if g.UniquePersonCount() != 2 {
		t.Errorf("unique person count = %d, want 2", g.UniquePersonCount())
	}
}

func TestGalleryAddAllowsDuplicatePhotoID(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(1)})

	if g.Size() != 2 {
		t.Errorf("Add must append duplicates, size = %d, want 2", g.Size())
	}
}

func TestGalleryUpsertReplacesDuplicate(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})
	g.Add(Entry{PersonID: 2, PhotoID: 11, Vector: unitVector(1)})

	g.Upsert(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(2)})

	if g.Size() != 2 {
		t.Fatalf("size after upsert = %d, want 2", g.Size())
	}
	entries := g.Entries()
	// The upserted entry moves to the end.
	if entries[1].PhotoID != 10 || entries[1].Vector[2] != 1 {
		t.Error("upsert should have replaced the entry with the new vector")
	}
}

func TestGalleryRemoveByPhotoID(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})
	g.Add(Entry{PersonID: 2, PhotoID: 11, Vector: unitVector(1)})

	if !g.RemoveByPhotoID(10) {
		t.Error("RemoveByPhotoID should report a removal")
	}
	if g.Size() != 1 {
		t.Errorf("size = %d, want 1", g.Size())
	}
	if g.RemoveByPhotoID(10) {
		t.Error("second removal of the same photo ID should report false")
	}
	if g.RemoveByPhotoID(999) {
		t.Error("removal of unknown photo ID should report false")
	}
}

func TestGalleryBulkLoadReplacesAndKeepsOrder(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 9, PhotoID: 99, Vector: unitVector(5)})

	loaded := []Entry{
		{PersonID: 1, PhotoID: 1, Vector: unitVector(0)},
		{PersonID: 1, PhotoID: 2, Vector: unitVector(1)},
		{PersonID: 2, PhotoID: 3, Vector: unitVector(2)},
	}
	g.BulkLoad(loaded)

	if g.Size() != 3 {
		t.Fatalf("size after bulk load = %d, want 3", g.Size())
	}
	for i, e := range g.Entries() {
		if e.PhotoID != loaded[i].PhotoID {
			t.Errorf("entry %d photo ID = %d, want %d", i, e.PhotoID, loaded[i].PhotoID)
		}
	}
}

func TestGalleryClearIdempotent(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})

	g.Clear()
	if g.Size() != 0 {
		t.Errorf("size after clear = %d, want 0", g.Size())
	}
	g.Clear()
	if g.Size() != 0 {
		t.Errorf("size after second clear = %d, want 0", g.Size())
	}
}

func TestGalleryEntriesReturnsCopy(t *testing.T) {
	g := NewGallery()
	g.Add(Entry{PersonID: 1, PhotoID: 10, Vector: unitVector(0)})

	entries := g.Entries()
	entries[0].PhotoID = 999

	if g.Entries()[0].PhotoID != 10 {
		t.Error("mutating the returned slice must not affect the gallery")
	}
}
