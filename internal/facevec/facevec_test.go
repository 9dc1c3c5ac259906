package facevec

import (
	"image"
	"image/color"
	"math"
	"testing"
)

const epsilon = 1e-5

// createTestImage creates a solid-color test image.
func createTestImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createGradientImage creates a horizontal gradient test image.
func createGradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / width)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}

func TestExtractNormalization(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"white square", createTestImage(100, 100, color.White)},
		{"gray square", createTestImage(50, 80, color.RGBA{128, 128, 128, 255})},
		{"gradient", createGradientImage(64, 64)},
		{"tiny region", createTestImage(3, 3, color.RGBA{200, 100, 50, 255})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vec := Extract(tc.img)
			if vec == nil {
				t.Fatal("Extract returned nil for a non-empty region")
			}
			if len(vec) != Dim {
				t.Fatalf("Extract returned %d elements, want %d", len(vec), Dim)
			}
			norm := vectorNorm(vec)
			if math.Abs(norm-1.0) > epsilon {
				t.Errorf("vector norm = %v, want 1.0", norm)
			}
		})
	}
}

func TestExtractBlackRegionIsZeroVector(t *testing.T) {
	vec := Extract(createTestImage(10, 10, color.Black))
	if vec == nil {
		t.Fatal("Extract returned nil")
	}
	if !IsZero(vec) {
		t.Error("all-black region should yield a zero vector")
	}
}

func TestExtractInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
	}{
		{"nil image", nil},
		{"zero-area image", image.NewRGBA(image.Rect(0, 0, 0, 0))},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if vec := Extract(tc.img); vec != nil {
				t.Errorf("Extract should return nil, got vector of length %d", len(vec))
			}
		})
	}
}

func TestExtractDeterminism(t *testing.T) {
	img := createGradientImage(120, 90)

	first := Extract(img)
	second := Extract(img)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("element %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestExtractDifferentRegionsDiffer(t *testing.T) {
	a := Extract(createTestImage(64, 64, color.White))
	b := Extract(createGradientImage(64, 64))

	identical := true
	for i := range a {
		if a[i] != b[i] {
			identical = false
			break
		}
	}
	if identical {
		t.Error("very different regions should produce different vectors")
	}
}

func TestSimilarity(t *testing.T) {
	unit := make([]float32, Dim)
	unit[0] = 1

	negated := make([]float32, Dim)
	negated[0] = -1

	orthogonal := make([]float32, Dim)
	orthogonal[1] = 1

	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical unit vectors", unit, unit, 1.0},
		{"negated vector", unit, negated, 0.0},
		{"orthogonal vectors", unit, orthogonal, 0.5},
		{"zero query", make([]float32, Dim), unit, 0.5},
		{"length mismatch", unit, []float32{1}, 0},
		{"empty vectors", nil, nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Similarity(tc.a, tc.b)
			if math.Abs(got-tc.expected) > epsilon {
				t.Errorf("Similarity = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestSimilarityClamped(t *testing.T) {
	// Slightly over-unit vectors must still land in [0, 1].
	a := make([]float32, Dim)
	a[0] = 1.0000001
	b := make([]float32, Dim)
	b[0] = 1.0000001

	s := Similarity(a, b)
	if s < 0 || s > 1 {
		t.Errorf("Similarity = %v, want value in [0, 1]", s)
	}
}

func TestCosineDistance(t *testing.T) {
	unit := make([]float32, Dim)
	unit[0] = 1

	negated := make([]float32, Dim)
	negated[0] = -1

	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", unit, unit, 0},
		{"opposite", unit, negated, 2},
		{"zero vector", make([]float32, Dim), unit, 2},
		{"length mismatch", unit, []float32{1}, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CosineDistance(tc.a, tc.b)
			if math.Abs(got-tc.expected) > epsilon {
				t.Errorf("CosineDistance = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	if !IsZero(make([]float32, Dim)) {
		t.Error("all-zero vector should be zero")
	}
	vec := make([]float32, Dim)
	vec[Dim-1] = 0.001
	if IsZero(vec) {
		t.Error("vector with a non-zero element should not be zero")
	}
}
