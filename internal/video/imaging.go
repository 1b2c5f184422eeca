package video

import (
	"image"

	"golang.org/x/image/draw"
)

// Rotate90 rotates an image 90 degrees clockwise, turning portrait frames
// upright. Rotation happens exactly once per frame, at extraction time.
func Rotate90(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.Y-1-y, x-b.Min.X, src.At(x, y))
		}
	}
	return dst
}

// DownscaleToFit halves oversized frames until they fit within the given
// bounds, keeping memory per frame bounded. Frames already within bounds are
// returned unchanged.
func DownscaleToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxWidth && h <= maxHeight {
		return src
	}
	for w > maxWidth || h > maxHeight {
		w /= 2
		h /= 2
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
