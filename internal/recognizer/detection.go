// Package recognizer implements the face identity matching engine:
// the detection data model, the in-memory gallery of known vectors,
// the matcher and the per-frame recognition pipeline.
package recognizer

import (
	"image"

	"golang.org/x/image/draw"
)

// MinFaceSize is the smallest usable face box side in pixels.
// Smaller detections carry too little signal and are dropped.
const MinFaceSize = 20

// Point is one facial landmark in pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Detection describes one face found in an image by the vision provider.
// Coordinates are axis-aligned pixels in the source image.
type Detection struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Confidence is the detection-stage score in (0, 1], not identity
	// confidence.
	Confidence float64 `json:"confidence"`

	Landmarks []Point `json:"landmarks,omitempty"`

	// SourceWidth and SourceHeight are the dimensions of the image the
	// box was computed against.
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
}

// Valid reports whether the detection satisfies the bbox invariant.
// An invalid detection must never reach the matcher.
func (d Detection) Valid() bool {
	if d.X < 0 || d.Y < 0 || d.Width <= 0 || d.Height <= 0 {
		return false
	}
	if d.SourceWidth <= 0 || d.SourceHeight <= 0 {
		return false
	}
	if d.X+d.Width > d.SourceWidth || d.Y+d.Height > d.SourceHeight {
		return false
	}
	if d.Width < MinFaceSize || d.Height < MinFaceSize {
		return false
	}
	if d.Confidence <= 0 || d.Confidence > 1 {
		return false
	}
	return true
}

// subImager is satisfied by the stdlib raster image types.
type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// Crop returns the detection's region of the given image.
// Returns nil when the region does not intersect the image.
func (d Detection) Crop(img image.Image) image.Image {
	bounds := img.Bounds()
	region := image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height).Add(bounds.Min)
	region = region.Intersect(bounds)
	if region.Empty() {
		return nil
	}

	if si, ok := img.(subImager); ok {
		return si.SubImage(region)
	}

	// Copy path for image types without SubImage.
	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Copy(dst, image.Point{}, img, region, draw.Src, nil)
	return dst
}
