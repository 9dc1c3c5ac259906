// Package facevec turns a face image region into a fixed-length,
// unit-normalized feature vector and provides the similarity function
// and wire codec used by the matching engine.
package facevec

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

const (
	// Dim is the length of every feature vector.
	Dim = 128
	// Canvas is the side of the square canvas a region is resized to
	// before its intensity values are sampled.
	Canvas = 64
)

// Extract converts an image region into a feature vector of length Dim.
// The region is resized to Canvas x Canvas, converted to grayscale
// intensities in [0, 1], flattened row-major, truncated or zero-padded
// to Dim and L2-normalized. Returns nil for a nil or zero-area region.
// A region with no signal (e.g. all black) yields a zero vector.
//
// The same function serves enrollment and recognition; scores are only
// meaningful when both sides went through identical extraction.
func Extract(img image.Image) []float32 {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil
	}

	resized := image.NewRGBA(image.Rect(0, 0, Canvas, Canvas))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	vec := make([]float32, Dim)
	idx := 0
	for y := 0; y < Canvas && idx < Dim; y++ {
		for x := 0; x < Canvas && idx < Dim; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// ITU-R BT.601 luma formula.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			vec[idx] = float32(luma / 255.0)
			idx++
		}
	}
	// Positions past the sampled pixels stay zero (right padding).

	return normalize(vec)
}

// normalize divides every element by the Euclidean norm of the vector.
// A vector with norm <= 0 is returned unchanged (the zero vector).
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm <= 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

// IsZero reports whether a vector carries no usable signal.
// Consumers must skip zero vectors instead of matching them.
func IsZero(vec []float32) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

// Similarity maps the cosine similarity of two unit vectors onto [0, 1]:
// (dot + 1) / 2, clamped. Vectors are assumed already normalized by
// Extract; no re-normalization happens here. Mismatched or empty inputs
// score 0.
func Similarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	s := (dot + 1) / 2
	// Clamp to [0, 1] to handle floating point errors.
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// CosineDistance computes the cosine distance between two vectors,
// 0 (identical) to 2 (opposite). Used for nearest-neighbor search.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}

	return 1 - sim
}
