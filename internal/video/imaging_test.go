package video

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRotate90SwapsDimensions(t *testing.T) {
	src := solidImage(720, 1280, color.RGBA{R: 255, A: 255})
	dst := Rotate90(src)

	b := dst.Bounds()
	if b.Dx() != 1280 || b.Dy() != 720 {
		t.Errorf("rotated bounds = %dx%d, want 1280x720", b.Dx(), b.Dy())
	}
}

func TestRotate90PixelMapping(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 3))
	marker := color.RGBA{R: 200, A: 255}
	src.SetRGBA(0, 0, marker) // top-left

	dst := Rotate90(src)
	// Clockwise rotation sends the top-left corner to the top-right.
	if got := dst.RGBAAt(2, 0); got != marker {
		t.Errorf("top-left pixel mapped to %v at (2,0), want %v", got, marker)
	}
}

func TestDownscaleToFitHalvesOversized(t *testing.T) {
	src := solidImage(2560, 1440, color.RGBA{G: 128, A: 255})
	dst := DownscaleToFit(src, 1280, 720)

	b := dst.Bounds()
	if b.Dx() > 1280 || b.Dy() > 720 {
		t.Errorf("downscaled bounds = %dx%d, want within 1280x720", b.Dx(), b.Dy())
	}
}

func TestDownscaleToFitLeavesSmallFramesAlone(t *testing.T) {
	src := solidImage(640, 360, color.RGBA{B: 64, A: 255})
	if dst := DownscaleToFit(src, 1280, 720); dst != image.Image(src) {
		t.Error("frame within bounds was rescaled")
	}
}

func TestRGBImageRoundTrip(t *testing.T) {
	raw := []byte{10, 20, 30, 40, 50, 60}
	img := rgbImage(raw, 2, 1)

	if got := img.RGBAAt(0, 0); got.R != 10 || got.G != 20 || got.B != 30 || got.A != 255 {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.RGBAAt(1, 0); got.R != 40 || got.G != 50 || got.B != 60 {
		t.Errorf("pixel (1,0) = %v", got)
	}
}
