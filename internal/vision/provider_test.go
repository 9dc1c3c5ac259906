package vision

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, resp detectResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/detect") {
			t.Errorf("path = %s, want /detect", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			t.Errorf("content type = %s, want multipart", r.Header.Get("Content-Type"))
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file part: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
}

func TestDetectPadsAndClamps(t *testing.T) {
	server := newTestServer(t, detectResponse{
		Width:  200,
		Height: 200,
		Faces: []faceResult{
			{BBox: []float64{50, 50, 100, 100}, Confidence: 0.9},
			// Near the origin, padding must clamp to the frame.
			{BBox: []float64{5, 5, 60, 60}, Confidence: 0.8},
		},
	})
	defer server.Close()

	p := NewProvider(server.URL, 0.5)
	frame := image.NewRGBA(image.Rect(0, 0, 200, 200))

	detections, err := p.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) != 2 {
		t.Fatalf("got %d detections, want 2", len(detections))
	}

	// First face: 20px padding on every side.
	d := detections[0]
	if d.X != 30 || d.Y != 30 || d.Width != 90 || d.Height != 90 {
		t.Errorf("padded bbox = (%d,%d,%d,%d), want (30,30,90,90)", d.X, d.Y, d.Width, d.Height)
	}
	if d.SourceWidth != 200 || d.SourceHeight != 200 {
		t.Errorf("source size = %dx%d, want 200x200", d.SourceWidth, d.SourceHeight)
	}

	// Second face: padding clamped at the top-left corner.
	d = detections[1]
	if d.X != 0 || d.Y != 0 {
		t.Errorf("clamped origin = (%d,%d), want (0,0)", d.X, d.Y)
	}
	if d.Width != 80 || d.Height != 80 {
		t.Errorf("clamped size = %dx%d, want 80x80", d.Width, d.Height)
	}
}

func TestDetectFiltersLowConfidence(t *testing.T) {
	server := newTestServer(t, detectResponse{
		Width:  100,
		Height: 100,
		Faces: []faceResult{
			{BBox: []float64{20, 20, 80, 80}, Confidence: 0.3},
			{BBox: []float64{20, 20, 80, 80}, Confidence: 0.7},
		},
	})
	defer server.Close()

	p := NewProvider(server.URL, 0.5)
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	detections, err := p.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1 after confidence filtering", len(detections))
	}
	if detections[0].Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", detections[0].Confidence)
	}
}

func TestDetectMapsLandmarks(t *testing.T) {
	server := newTestServer(t, detectResponse{
		Width:  100,
		Height: 100,
		Faces: []faceResult{
			{
				BBox:       []float64{20, 20, 80, 80},
				Confidence: 0.9,
				Landmarks:  [][]float64{{30, 40}, {60, 40}},
			},
		},
	})
	defer server.Close()

	p := NewProvider(server.URL, 0.5)
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	detections, err := p.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("got %d detections, want 1", len(detections))
	}
	lm := detections[0].Landmarks
	if len(lm) != 2 {
		t.Fatalf("got %d landmarks, want 2", len(lm))
	}
	if lm[0].X != 30 || lm[0].Y != 40 {
		t.Errorf("landmark = %+v, want (30, 40)", lm[0])
	}
}

func TestDetectMalformedBBox(t *testing.T) {
	server := newTestServer(t, detectResponse{
		Width:  100,
		Height: 100,
		Faces: []faceResult{
			{BBox: []float64{20, 20, 80}, Confidence: 0.9},
		},
	})
	defer server.Close()

	p := NewProvider(server.URL, 0.5)
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	detections, err := p.Detect(context.Background(), frame)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) != 0 {
		t.Errorf("got %d detections, want 0 for a malformed bbox", len(detections))
	}
}

func TestDetectServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewProvider(server.URL, 0.5)
	frame := image.NewRGBA(image.Rect(0, 0, 100, 100))

	if _, err := p.Detect(context.Background(), frame); err == nil {
		t.Error("service failure should surface as an error")
	}
}

func TestNewProviderConfidenceFallback(t *testing.T) {
	p := NewProvider("", -1)
	if p.minConfidence != DefaultMinConfidence {
		t.Errorf("minConfidence = %v, want %v", p.minConfidence, DefaultMinConfidence)
	}

	p = NewProvider("", 2)
	if p.minConfidence != DefaultMinConfidence {
		t.Errorf("minConfidence = %v, want %v", p.minConfidence, DefaultMinConfidence)
	}
}
