package composite

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	"avatarforge/internal/fetch"
)

// MissingLayerPolicy decides what a fetch failure on one layer does to
// the run.
type MissingLayerPolicy int

const (
	// FailRun aborts the whole composite when any layer cannot be
	// fetched after retries. Default.
	FailRun MissingLayerPolicy = iota

	// SkipLayer drops the failed layer and composites the rest. Every
	// skip is logged and reported in Result.Skipped so broken trait
	// assets never disappear silently.
	SkipLayer
)

// Options tune one pipeline run.
type Options struct {
	// AlphaThreshold binarizes transparency during quantization; pixels
	// with alpha below it become fully transparent. Zero means the
	// default of 32.
	AlphaThreshold uint8

	// MissingLayers picks the failed-fetch policy.
	MissingLayers MissingLayerPolicy

	// CanvasWidth/Height are the fallback output dimensions used when
	// no layer is animated and the static layers disagree on size.
	// Zero means 1000.
	CanvasWidth  int
	CanvasHeight int
}

const (
	defaultAlphaThreshold = 32
	defaultCanvasSize     = 1000
)

// Input names one layer to composite, already in z-order.
type Input struct {
	Category string
	Ref      string
}

// Renderer runs the full pipeline: fetch, decode, synchronize, blend,
// and encode. A Renderer is stateless across runs and safe for
// concurrent use.
type Renderer struct {
	Fetcher fetch.Fetcher
	Options Options
}

// Compose fetches and composites the given layer stack. The inputs must
// already be ordered back-to-front. The generation tag is echoed in the
// result so callers can discard output from superseded runs.
//
// Output is an animated GIF when any input animates (or more than one
// output frame results), otherwise a flattened PNG.
func (r *Renderer) Compose(ctx context.Context, inputs []Input, generation uint64) (*Result, error) {
	if len(inputs) == 0 {
		return nil, ErrNoLayers
	}

	layers, skipped, err := r.loadLayers(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(layers) == 0 {
		return nil, ErrNoLayers
	}

	w, h := r.electCanvas(layers)
	timeline := PlanTimeline(layers)
	animated := timeline.FrameCount > 1
	for _, l := range layers {
		if l.Animated {
			animated = true
		}
	}

	frames := make([]*image.NRGBA, timeline.FrameCount)
	for i := 0; i < timeline.FrameCount; i++ {
		stack := make([]*image.NRGBA, len(layers))
		for j, l := range layers {
			f := l.Frames[SourceIndex(l.FrameCount(), i)]
			stack[j] = FitCanvas(f.Pix, w, h)
		}
		frames[i] = BlendDown(stack)
	}

	res := &Result{
		Width:      w,
		Height:     h,
		FrameCount: timeline.FrameCount,
		Generation: generation,
		Skipped:    skipped,
	}

	if !animated {
		b, err := EncodeStill(frames[0])
		if err != nil {
			return nil, err
		}
		res.Format = FormatPNG
		res.Bytes = b
		return res, nil
	}

	threshold := r.Options.AlphaThreshold
	if threshold == 0 {
		threshold = defaultAlphaThreshold
	}
	pal := BuildPalette(frames)
	indexed := IndexFrames(frames, pal, threshold)
	b, err := EncodeAnimation(indexed, timeline.DelaysMS, LoopForever)
	if err != nil {
		return nil, err
	}
	res.Format = FormatGIF
	res.Bytes = b
	return res, nil
}

// loadLayers fetches every input concurrently, joins, then decodes in
// input order. Fetch failures follow the configured policy; decode
// failures always abort.
func (r *Renderer) loadLayers(ctx context.Context, inputs []Input) ([]*Layer, []string, error) {
	type fetched struct {
		data []byte
		err  error
	}
	results := make([]fetched, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			b, err := r.Fetcher.Fetch(ctx, ref)
			results[i] = fetched{data: b, err: err}
		}(i, in.Ref)
	}
	wg.Wait()

	var layers []*Layer
	var skipped []string
	for i, in := range inputs {
		if results[i].err != nil {
			if r.Options.MissingLayers == SkipLayer {
				log.Printf("compose: skipping layer %s (%s): %v", in.Category, in.Ref, results[i].err)
				skipped = append(skipped, in.Ref)
				continue
			}
			return nil, nil, results[i].err
		}
		l, err := DecodeLayer(results[i].data)
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Ref = in.Ref
			}
			return nil, nil, err
		}
		layers = append(layers, l)
	}
	return layers, skipped, nil
}

// electCanvas picks the output dimensions: the first animated layer
// wins; with only static layers, a shared common size wins; otherwise
// the configured default.
func (r *Renderer) electCanvas(layers []*Layer) (int, int) {
	for _, l := range layers {
		if l.Animated {
			return l.Width, l.Height
		}
	}
	w, h := layers[0].Width, layers[0].Height
	for _, l := range layers[1:] {
		if l.Width != w || l.Height != h {
			w, h = r.Options.CanvasWidth, r.Options.CanvasHeight
			if w <= 0 {
				w = defaultCanvasSize
			}
			if h <= 0 {
				h = defaultCanvasSize
			}
			return w, h
		}
	}
	return w, h
}
