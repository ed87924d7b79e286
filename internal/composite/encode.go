package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/png"
)

// LoopForever is the GIF loop count for an infinitely repeating
// animation.
const LoopForever = 0

// EncodeAnimation serializes indexed frames, delays, and a loop count
// into an animated GIF byte stream. Delays are converted from
// milliseconds to the format's centisecond field with a 1cs floor. All
// frames must share dimensions; that precondition is the orchestrator's
// to guarantee and is re-checked here.
func EncodeAnimation(frames []*image.Paletted, delaysMS []int, loopCount int) ([]byte, error) {
	if len(frames) == 0 {
		return nil, &EncodeError{Err: fmt.Errorf("no frames")}
	}
	if len(delaysMS) != len(frames) {
		return nil, &EncodeError{Err: fmt.Errorf("%d delays for %d frames", len(delaysMS), len(frames))}
	}
	bounds := frames[0].Bounds()
	for i, f := range frames[1:] {
		if f.Bounds() != bounds {
			return nil, &EncodeError{Err: fmt.Errorf("frame %d bounds %v != %v", i+1, f.Bounds(), bounds)}
		}
	}

	g := &gif.GIF{
		Image:     frames,
		Delay:     make([]int, len(frames)),
		Disposal:  make([]byte, len(frames)),
		LoopCount: loopCount,
		Config: image.Config{
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		},
	}
	for i, ms := range delaysMS {
		cs := (ms + 5) / 10
		if cs < 1 {
			cs = 1
		}
		g.Delay[i] = cs
		// Clear to transparent between frames so indexed transparency
		// never shows the previous frame through.
		g.Disposal[i] = gif.DisposalBackground
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return buf.Bytes(), nil
}

// EncodeStill flattens a single composited frame to PNG bytes.
func EncodeStill(f *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, f); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return buf.Bytes(), nil
}
