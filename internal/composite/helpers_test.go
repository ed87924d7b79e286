package composite

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
)

// solidNRGBA fills a w×h frame with one color.
func solidNRGBA(t *testing.T, w, h int, c color.NRGBA) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// encodePNG returns PNG bytes for a frame.
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Unexpected error encoding png fixture: %v", err)
	}
	return buf.Bytes()
}

// encodeAnimatedGIF builds a w×h animated GIF where frame i is filled
// with colors[i%len(colors)], every frame carrying the same delay in
// centiseconds.
func encodeAnimatedGIF(t *testing.T, w, h, frameCount, delayCS int, colors []color.RGBA) []byte {
	t.Helper()
	pal := color.Palette{color.RGBA{}}
	for _, c := range colors {
		pal = append(pal, c)
	}

	g := &gif.GIF{LoopCount: 0, Config: image.Config{Width: w, Height: h}}
	for i := 0; i < frameCount; i++ {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), pal)
		idx := uint8(1 + i%len(colors))
		for p := range frame.Pix {
			frame.Pix[p] = idx
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delayCS)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatalf("Unexpected error encoding gif fixture: %v", err)
	}
	return buf.Bytes()
}
