package recognizer

import (
	"image"
	"image/color"
	"testing"
)

func TestDetectionValid(t *testing.T) {
	tests := []struct {
		name     string
		det      Detection
		expected bool
	}{
		{
			"valid detection",
			Detection{X: 10, Y: 10, Width: 50, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			true,
		},
		{
			"exactly fills source",
			Detection{X: 0, Y: 0, Width: 100, Height: 100, Confidence: 0.5, SourceWidth: 100, SourceHeight: 100},
			true,
		},
		{
			"minimum face size",
			Detection{X: 0, Y: 0, Width: 20, Height: 20, Confidence: 0.5, SourceWidth: 100, SourceHeight: 100},
			true,
		},
		{
			"below minimum face size",
			Detection{X: 10, Y: 10, Width: 15, Height: 15, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"negative x",
			Detection{X: -1, Y: 10, Width: 50, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"negative y",
			Detection{X: 10, Y: -1, Width: 50, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"zero width",
			Detection{X: 10, Y: 10, Width: 0, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"zero height",
			Detection{X: 10, Y: 10, Width: 50, Height: 0, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"overflows right edge",
			Detection{X: 60, Y: 10, Width: 50, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"overflows bottom edge",
			Detection{X: 10, Y: 60, Width: 50, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"missing source size",
			Detection{X: 10, Y: 10, Width: 50, Height: 50, Confidence: 0.9},
			false,
		},
		{
			"zero confidence",
			Detection{X: 10, Y: 10, Width: 50, Height: 50, Confidence: 0, SourceWidth: 100, SourceHeight: 100},
			false,
		},
		{
			"confidence above 1",
			Detection{X: 10, Y: 10, Width: 50, Height: 50, Confidence: 1.5, SourceWidth: 100, SourceHeight: 100},
			false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.det.Valid(); got != tc.expected {
				t.Errorf("Valid() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectionCrop(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x)})
		}
	}

	det := Detection{X: 20, Y: 30, Width: 40, Height: 50, Confidence: 0.9, SourceWidth: 100, SourceHeight: 100}
	cropped := det.Crop(img)
	if cropped == nil {
		t.Fatal("Crop returned nil for a valid region")
	}

	b := cropped.Bounds()
	if b.Dx() != 40 || b.Dy() != 50 {
		t.Errorf("cropped size = %dx%d, want 40x50", b.Dx(), b.Dy())
	}

	// Top-left pixel of the crop must come from (20, 30).
	r, _, _, _ := cropped.At(b.Min.X, b.Min.Y).RGBA()
	if uint8(r>>8) != 20 {
		t.Errorf("crop origin pixel = %d, want 20", uint8(r>>8))
	}
}

func TestDetectionCropOutsideImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	det := Detection{X: 200, Y: 200, Width: 40, Height: 40}
	if cropped := det.Crop(img); cropped != nil {
		t.Error("Crop of a region outside the image should return nil")
	}
}
