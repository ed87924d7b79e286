package composite

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	"image/gif"

	// Register the static raster formats trait art ships in.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Stored GIF delays of 0 mean "as fast as possible"; normalize them so
// downstream pacing math never divides by zero.
const minDelayMS = 10

// DecodeLayer sniffs the byte stream and decodes it as an animated GIF
// or a single-frame static raster.
func DecodeLayer(data []byte) (*Layer, error) {
	if bytes.HasPrefix(data, []byte("GIF8")) {
		return DecodeGIF(data)
	}
	return DecodeStatic(data)
}

// DecodeGIF parses a GIF byte stream into coalesced full-canvas NRGBA
// frames with millisecond delays. Frames are rendered honoring the
// source disposal modes, so partial-canvas and delta frames come out as
// complete images.
func DecodeGIF(data []byte) (*Layer, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(g.Image) == 0 {
		return nil, &DecodeError{Err: errors.New("gif has no frames")}
	}

	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	frames := make([]Frame, 0, len(g.Image))
	for i, src := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}

		var restore *image.NRGBA
		if disposal == gif.DisposalPrevious {
			restore = cloneNRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frames = append(frames, Frame{Pix: cloneNRGBA(canvas), DelayMS: delayMS(g.Delay, i)})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}

	return &Layer{
		Width:    w,
		Height:   h,
		Frames:   frames,
		Animated: len(frames) > 1,
	}, nil
}

// DecodeStatic wraps any registered raster format as a single-frame
// layer with zero delay, so the synchronizer and blender need not
// special-case still images.
func DecodeStatic(data []byte) (*Layer, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	b := img.Bounds()
	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return &Layer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Frames: []Frame{{Pix: canvas, DelayMS: 0}},
	}, nil
}

func delayMS(delays []int, i int) int {
	ms := 0
	if i < len(delays) {
		ms = delays[i] * 10 // GIF stores delay in 10ms units
	}
	if ms < minDelayMS {
		ms = minDelayMS
	}
	return ms
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
