package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/kaleidoid/internal/database"
	"github.com/kozaktomas/kaleidoid/internal/database/mock"
	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// fullFrameDetector reports a single face covering the whole image.
type fullFrameDetector struct{}

func (fullFrameDetector) Detect(ctx context.Context, img image.Image) ([]recognizer.Detection, error) {
	b := img.Bounds()
	return []recognizer.Detection{{
		X: 0, Y: 0,
		Width: b.Dx(), Height: b.Dy(),
		Confidence:   0.9,
		SourceWidth:  b.Dx(),
		SourceHeight: b.Dy(),
	}}, nil
}

// newTestEngine builds an engine over the in-memory store and a
// detector that treats every upload as one full-frame face.
func newTestEngine(t *testing.T) (*Engine, *mock.Store) {
	t.Helper()

	store := mock.NewStore()
	pipeline, err := recognizer.NewPipeline(fullFrameDetector{}, recognizer.NewGallery(), recognizer.DefaultThreshold)
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}

	neighbors := recognizer.NewNeighborIndex()
	neighbors.Build(nil)

	return &Engine{
		Pipeline:  pipeline,
		Neighbors: neighbors,
		People:    store,
		Photos:    store,
		Sessions:  store,
		Settings:  store,
		CameraID:  "test-camera",
	}, store
}

// testFace returns a 64x64 region whose leftmost `split` columns are
// white and the rest black.
func testFace(split int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x < split {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

// imageUploadRequest builds a multipart POST with the image under the
// "image" field plus any extra form values.
func imageUploadRequest(t *testing.T, url string, img image.Image, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "face.jpg")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if err := jpeg.Encode(part, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field %s: %v", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// withURLParam injects a chi URL parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// addTestPerson inserts a person directly into the store.
func addTestPerson(t *testing.T, store *mock.Store, first, last string) int64 {
	t.Helper()
	id, err := store.AddPerson(context.Background(), &database.Person{FirstName: first, LastName: last})
	if err != nil {
		t.Fatalf("failed to add person: %v", err)
	}
	return id
}
