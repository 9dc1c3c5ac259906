// Package vision adapts the external face detection service to the
// recognizer's Detector interface. The service receives full frames and
// returns bounding boxes in source pixels; the provider pads each box,
// clamps it to the frame, and drops low-confidence hits before they
// reach the pipeline.
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/kozaktomas/kaleidoid/internal/recognizer"
)

// facePadding is the number of pixels added on each side of a reported
// bounding box before cropping. Tight boxes cut off chins and hairlines,
// which measurably hurts the extracted features.
const facePadding = 20

// DefaultMinConfidence filters out detections the service itself is
// unsure about.
const DefaultMinConfidence = 0.5

// Provider implements recognizer.Detector on top of the detection service.
type Provider struct {
	client        *Client
	minConfidence float64
}

// NewProvider creates a detection provider. A non-positive minConfidence
// falls back to DefaultMinConfidence.
func NewProvider(serviceURL string, minConfidence float64) *Provider {
	if minConfidence <= 0 || minConfidence > 1 {
		minConfidence = DefaultMinConfidence
	}
	return &Provider{
		client:        NewClient(serviceURL),
		minConfidence: minConfidence,
	}
}

// Detect encodes the frame as JPEG, sends it to the service and maps the
// reported faces to detections. Faces below the confidence floor are
// dropped here; size and bounds checks happen later in the pipeline.
func (p *Provider) Detect(ctx context.Context, img image.Image) ([]recognizer.Detection, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}

	resp, err := p.client.DetectFaces(ctx, buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("face detection failed: %w", err)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	detections := make([]recognizer.Detection, 0, len(resp.Faces))
	for _, face := range resp.Faces {
		if face.Confidence < p.minConfidence {
			continue
		}
		det, ok := toDetection(face, srcW, srcH)
		if !ok {
			continue
		}
		detections = append(detections, det)
	}

	return detections, nil
}

// toDetection converts a service face into a padded, clamped detection.
func toDetection(face faceResult, srcW, srcH int) (recognizer.Detection, bool) {
	if len(face.BBox) != 4 {
		return recognizer.Detection{}, false
	}

	x1 := int(face.BBox[0]) - facePadding
	y1 := int(face.BBox[1]) - facePadding
	x2 := int(face.BBox[2]) + facePadding
	y2 := int(face.BBox[3]) + facePadding

	x1 = max(x1, 0)
	y1 = max(y1, 0)
	x2 = min(x2, srcW)
	y2 = min(y2, srcH)

	if x2 <= x1 || y2 <= y1 {
		return recognizer.Detection{}, false
	}

	landmarks := make([]recognizer.Point, 0, len(face.Landmarks))
	for _, lm := range face.Landmarks {
		if len(lm) != 2 {
			continue
		}
		landmarks = append(landmarks, recognizer.Point{X: lm[0], Y: lm[1]})
	}

	return recognizer.Detection{
		X:            x1,
		Y:            y1,
		Width:        x2 - x1,
		Height:       y2 - y1,
		Confidence:   face.Confidence,
		Landmarks:    landmarks,
		SourceWidth:  srcW,
		SourceHeight: srcH,
	}, true
}
