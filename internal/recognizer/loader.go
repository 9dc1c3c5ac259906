package recognizer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"

	_ "golang.org/x/image/bmp"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// Store is the narrow persistence contract the pipeline needs to
// rebuild and maintain its gallery.
type Store interface {
	ListPeople(ctx context.Context) ([]database.Person, error)
	ListPhotos(ctx context.Context, personID int64) ([]database.Photo, error)
	GetPhotoData(ctx context.Context, photoID int64) ([]byte, error)
	LoadVector(ctx context.Context, photoID int64) ([]byte, error)
	SaveVector(ctx context.Context, photoID int64, data []byte) error
}

// LoadGallery rebuilds the gallery from the persistent store and
// returns the number of entries loaded. People and photos are iterated
// in the store's listing order, which becomes the gallery's tie-break
// order. A stored vector that does not decode to the engine dimension
// is treated as absent: the photo is re-extracted and the fresh vector
// written back. Photos with no usable vector are skipped, never fatal.
func (p *Pipeline) LoadGallery(ctx context.Context, store Store) (int, error) {
	people, err := store.ListPeople(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing people: %w", err)
	}

	var entries []Entry
	for _, person := range people {
		photos, err := store.ListPhotos(ctx, person.ID)
		if err != nil {
			return 0, fmt.Errorf("listing photos for person %d: %w", person.ID, err)
		}

		for _, photo := range photos {
			vec := p.loadOrExtract(ctx, store, photo.ID)
			if vec == nil || facevec.IsZero(vec) {
				continue
			}
			entries = append(entries, Entry{
				PersonID:    person.ID,
				PhotoID:     photo.ID,
				DisplayName: person.DisplayName(),
				Vector:      vec,
			})
		}
	}

	p.gallery.BulkLoad(entries)
	return len(entries), nil
}

// loadOrExtract returns the stored vector for a photo, re-extracting
// from the image when the stored bytes are absent or corrupt.
func (p *Pipeline) loadOrExtract(ctx context.Context, store Store, photoID int64) []float32 {
	data, err := store.LoadVector(ctx, photoID)
	if err == nil && data != nil {
		vec, decodeErr := facevec.Decode(data)
		if decodeErr == nil {
			return vec
		}
		log.Printf("photo %d: stored vector unusable (%v), re-extracting", photoID, decodeErr)
	}

	imgData, err := store.GetPhotoData(ctx, photoID)
	if err != nil || len(imgData) == 0 {
		return nil
	}

	img, _, err := image.Decode(bytes.NewReader(imgData))
	if err != nil {
		log.Printf("photo %d: failed to decode image: %v", photoID, err)
		return nil
	}

	vec := p.ExtractPrimary(ctx, img)
	if vec == nil {
		return nil
	}

	if err := store.SaveVector(ctx, photoID, facevec.Encode(vec)); err != nil {
		log.Printf("photo %d: failed to save re-extracted vector: %v", photoID, err)
	}
	return vec
}
