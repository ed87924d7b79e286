package composite

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// FitCanvas resamples a frame to the target dimensions with
// nearest-neighbor sampling. Frames already at the target size are
// returned as-is.
func FitCanvas(f *image.NRGBA, w, h int) *image.NRGBA {
	if f.Rect.Dx() == w && f.Rect.Dy() == h {
		return f
	}
	out := resize.Resize(uint(w), uint(h), f, resize.NearestNeighbor)
	if nrgba, ok := out.(*image.NRGBA); ok {
		return nrgba
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), out, out.Bounds().Min, draw.Src)
	return dst
}
