package recognizer

import (
	"context"
	"fmt"
	"image"

	"github.com/kozaktomas/kaleidoid/internal/facevec"
)

// DefaultThreshold is the recognition threshold used when no persisted
// setting overrides it.
const DefaultThreshold = 0.75

// Detector supplies face detections for an image. The engine never
// implements detection itself; any provider producing this shape works.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// FaceOutcome is the per-face result of a recognition pass: the
// detection that produced it plus the identity resolution, if any.
type FaceOutcome struct {
	X                   int     `json:"x"`
	Y                   int     `json:"y"`
	Width               int     `json:"width"`
	Height              int     `json:"height"`
	DetectionConfidence float64 `json:"detection_confidence"`
	Landmarks           []Point `json:"landmarks,omitempty"`

	PersonID    int64   `json:"person_id,omitempty"`
	PhotoID     int64   `json:"photo_id,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	Score       float64 `json:"score"`
	Matched     bool    `json:"matched"`
}

// Pipeline orchestrates detector, extractor and matcher for every face
// in a frame. It holds no mutable state between calls except the live
// gallery and threshold, and performs no locking: callers that mix
// enrollment and recognition across goroutines serialize access
// themselves. Safe to invoke once per captured frame.
type Pipeline struct {
	detector  Detector
	gallery   *Gallery
	threshold float64
}

// NewPipeline creates a recognition pipeline. The threshold must lie in
// (0, 1]; a value of 0 would accept any positive similarity and is
// rejected here rather than mid-scan.
func NewPipeline(detector Detector, gallery *Gallery, threshold float64) (*Pipeline, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if gallery == nil {
		gallery = NewGallery()
	}
	return &Pipeline{
		detector:  detector,
		gallery:   gallery,
		threshold: threshold,
	}, nil
}

func validateThreshold(t float64) error {
	if t <= 0 || t > 1 {
		return fmt.Errorf("recognition threshold must be in (0, 1], got %g", t)
	}
	return nil
}

// Gallery returns the live gallery.
func (p *Pipeline) Gallery() *Gallery {
	return p.gallery
}

// Threshold returns the current recognition threshold.
func (p *Pipeline) Threshold() float64 {
	return p.threshold
}

// SetThreshold updates the recognition threshold, rejecting values
// outside (0, 1].
func (p *Pipeline) SetThreshold(t float64) error {
	if err := validateThreshold(t); err != nil {
		return err
	}
	p.threshold = t
	return nil
}

// RecognizeAll runs the full pipeline on one frame and produces one
// outcome per valid detection, preserving detection order. Invalid
// detections are dropped silently; a failed extraction still yields an
// outcome carrying the detection but no identity. The only error is a
// detector failure.
func (p *Pipeline) RecognizeAll(ctx context.Context, img image.Image) ([]FaceOutcome, error) {
	if img == nil {
		return nil, nil
	}

	detections, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("detecting faces: %w", err)
	}

	var outcomes []FaceOutcome
	for _, det := range detections {
		if !det.Valid() {
			continue
		}

		outcome := FaceOutcome{
			X:                   det.X,
			Y:                   det.Y,
			Width:               det.Width,
			Height:              det.Height,
			DetectionConfidence: det.Confidence,
			Landmarks:           det.Landmarks,
		}

		vec := facevec.Extract(det.Crop(img))
		if vec != nil {
			// A zero vector degrades to "no identity" inside Match.
			m := Match(vec, p.gallery, p.threshold)
			outcome.PersonID = m.PersonID
			outcome.PhotoID = m.PhotoID
			outcome.DisplayName = m.DisplayName
			outcome.Score = m.Score
			outcome.Matched = m.Matched
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// ExtractPrimary extracts a feature vector from the first valid face in
// a full image. Returns nil when nothing usable was found. Enrollment
// and recognition share this extraction so scores stay comparable.
func (p *Pipeline) ExtractPrimary(ctx context.Context, img image.Image) []float32 {
	if img == nil {
		return nil
	}

	detections, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil
	}

	for _, det := range detections {
		if !det.Valid() {
			continue
		}
		vec := facevec.Extract(det.Crop(img))
		if vec != nil && !facevec.IsZero(vec) {
			return vec
		}
	}
	return nil
}

// Enroll extracts a vector from the primary face of the given image and
// upserts it into the gallery under the given identity and photo.
// Returns false when no usable vector could be produced.
func (p *Pipeline) Enroll(ctx context.Context, img image.Image, personID, photoID int64, displayName string) bool {
	vec := p.ExtractPrimary(ctx, img)
	if vec == nil {
		return false
	}
	p.gallery.Upsert(Entry{
		PersonID:    personID,
		PhotoID:     photoID,
		DisplayName: displayName,
		Vector:      vec,
	})
	return true
}

// EnrollRegion enrolls a pre-cropped face region without running
// detection.
func (p *Pipeline) EnrollRegion(region image.Image, personID, photoID int64, displayName string) bool {
	vec := facevec.Extract(region)
	if vec == nil || facevec.IsZero(vec) {
		return false
	}
	p.gallery.Upsert(Entry{
		PersonID:    personID,
		PhotoID:     photoID,
		DisplayName: displayName,
		Vector:      vec,
	})
	return true
}
