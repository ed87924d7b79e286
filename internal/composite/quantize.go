package composite

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
)

// Palette sampling bounds. Frames are downscaled and stacked into one
// strip before median-cut so huge animations stay cheap to quantize.
const (
	sampleWidth  = 128
	sampleFrames = 32
)

// BuildPalette median-cuts the pixel data of all output frames into a
// single shared palette of at most 256 entries, with index 0 reserved
// for transparency. One global palette keeps colors stable across the
// animation and avoids per-frame palette flicker.
func BuildPalette(frames []*image.NRGBA) color.Palette {
	strip := sampleStrip(frames)
	pal := color.Palette{color.NRGBA{}}
	if strip == nil {
		return pal
	}
	q := quantize.MedianCutQuantizer{}
	for _, c := range q.Quantize(make([]color.Color, 0, 255), strip) {
		if len(pal) >= 256 {
			break
		}
		pal = append(pal, c)
	}
	return pal
}

// sampleStrip stacks downscaled copies of up to sampleFrames frames
// vertically so the quantizer sees pixels pooled from the whole
// animation, not just one frame.
func sampleStrip(frames []*image.NRGBA) *image.NRGBA {
	if len(frames) == 0 {
		return nil
	}
	step := 1
	if len(frames) > sampleFrames {
		step = (len(frames) + sampleFrames - 1) / sampleFrames
	}

	var samples []*image.NRGBA
	for i := 0; i < len(frames); i += step {
		f := frames[i]
		if f.Rect.Dx() > sampleWidth {
			h := f.Rect.Dy() * sampleWidth / f.Rect.Dx()
			if h < 1 {
				h = 1
			}
			f = FitCanvas(f, sampleWidth, h)
		}
		samples = append(samples, f)
	}

	w, h := 0, 0
	for _, s := range samples {
		if s.Rect.Dx() > w {
			w = s.Rect.Dx()
		}
		h += s.Rect.Dy()
	}
	strip := image.NewNRGBA(image.Rect(0, 0, w, h))
	y := 0
	for _, s := range samples {
		r := image.Rect(0, y, s.Rect.Dx(), y+s.Rect.Dy())
		draw.Draw(strip, r, s, s.Rect.Min, draw.Src)
		y += s.Rect.Dy()
	}
	return strip
}

// IndexFrames maps every frame onto the shared palette. Alpha is
// binarized: pixels below threshold become the transparent index 0, the
// rest are matched as fully opaque colors.
func IndexFrames(frames []*image.NRGBA, pal color.Palette, threshold uint8) []*image.Paletted {
	out := make([]*image.Paletted, len(frames))
	cache := make(map[color.NRGBA]uint8)
	for i, f := range frames {
		p := image.NewPaletted(image.Rect(0, 0, f.Rect.Dx(), f.Rect.Dy()), pal)
		for y := 0; y < f.Rect.Dy(); y++ {
			src := f.Pix[y*f.Stride:]
			dst := p.Pix[y*p.Stride:]
			for x := 0; x < f.Rect.Dx(); x++ {
				px := src[x*4 : x*4+4]
				if px[3] < threshold {
					dst[x] = 0
					continue
				}
				key := color.NRGBA{R: px[0], G: px[1], B: px[2], A: 0xff}
				idx, ok := cache[key]
				if !ok {
					idx = uint8(pal.Index(key))
					cache[key] = idx
				}
				dst[x] = idx
			}
		}
		out[i] = p
	}
	return out
}
