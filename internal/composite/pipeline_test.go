package composite

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"avatarforge/internal/fetch"
)

// fakeFetcher serves refs from memory; unknown refs fail like an
// exhausted retry.
type fakeFetcher struct {
	assets map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	b, ok := f.assets[ref]
	if !ok {
		return nil, &fetch.Error{Ref: ref, Err: fmt.Errorf("asset unavailable")}
	}
	return b, nil
}

// furPNG is a 64x64 static layer: transparent border, opaque brown
// center square.
func furPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	brown := color.NRGBA{R: 139, G: 69, B: 19, A: 255}
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			img.SetNRGBA(x, y, brown)
		}
	}
	return encodePNG(t, img)
}

func TestCompose_AnimatedBackgroundStaticFur(t *testing.T) {
	bg := encodeAnimatedGIF(t, 64, 64, 30, 10, []color.RGBA{
		{R: 220, A: 255},
		{G: 220, A: 255},
	})
	r := &Renderer{Fetcher: &fakeFetcher{assets: map[string][]byte{
		"bg.gif":  bg,
		"fur.png": furPNG(t),
	}}}

	res, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "bg.gif"},
		{Category: "fur", Ref: "fur.png"},
	}, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Format != FormatGIF {
		t.Fatalf("Expected gif output, got %s", res.Format)
	}
	if res.FrameCount != 30 {
		t.Errorf("Expected 30 frames, got %d", res.FrameCount)
	}
	if res.Width != 64 || res.Height != 64 {
		t.Errorf("Expected 64x64 canvas from the animated layer, got %dx%d", res.Width, res.Height)
	}
	if res.Generation != 7 {
		t.Errorf("Expected generation 7 echoed, got %d", res.Generation)
	}

	g, err := gif.DecodeAll(bytes.NewReader(res.Bytes))
	if err != nil {
		t.Fatalf("Unexpected error decoding output: %v", err)
	}
	if len(g.Image) != 30 {
		t.Fatalf("Expected 30 encoded frames, got %d", len(g.Image))
	}
	totalMS := 0
	for _, cs := range g.Delay {
		if cs != 10 {
			t.Errorf("Expected 10cs per frame, got %d", cs)
		}
		totalMS += cs * 10
	}
	if totalMS != 3000 {
		t.Errorf("Expected ~3000ms loop, got %dms", totalMS)
	}
	if g.LoopCount != 0 {
		t.Errorf("Expected infinite loop, got %d", g.LoopCount)
	}

	// Border shows the background cycling, center always shows fur.
	for i := 0; i < 2; i++ {
		r16, g16, _, _ := g.Image[i].At(2, 2).RGBA()
		if i%2 == 0 && r16 <= g16 {
			t.Errorf("Frame %d: expected red background at border", i)
		}
		if i%2 == 1 && g16 <= r16 {
			t.Errorf("Frame %d: expected green background at border", i)
		}
		fr, fg, fb, fa := g.Image[i].At(32, 32).RGBA()
		if fa == 0 {
			t.Errorf("Frame %d: expected opaque fur at center", i)
		}
		if fr>>8 < 90 || fr>>8 > 190 || fg>>8 > 120 || fb>>8 > 80 {
			t.Errorf("Frame %d: expected brown-ish center, got (%d,%d,%d)", i, fr>>8, fg>>8, fb>>8)
		}
	}
}

func TestCompose_AllStaticYieldsPNG(t *testing.T) {
	r := &Renderer{Fetcher: &fakeFetcher{assets: map[string][]byte{
		"a.png": encodePNG(t, solidNRGBA(t, 16, 16, color.NRGBA{R: 255, A: 255})),
		"b.png": furPNG(t),
	}}}

	res, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "a.png"},
		{Category: "fur", Ref: "b.png"},
	}, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Format != FormatPNG {
		t.Errorf("Expected png output for static stack, got %s", res.Format)
	}
	if res.FrameCount != 1 {
		t.Errorf("Expected single frame, got %d", res.FrameCount)
	}
	if !bytes.HasPrefix(res.Bytes, []byte("\x89PNG")) {
		t.Error("Expected PNG signature")
	}
}

func TestCompose_NoInputs(t *testing.T) {
	r := &Renderer{Fetcher: &fakeFetcher{}}
	_, err := r.Compose(context.Background(), nil, 0)
	if !errors.Is(err, ErrNoLayers) {
		t.Fatalf("Expected ErrNoLayers, got %v", err)
	}
}

func TestCompose_FetchFailureFailRun(t *testing.T) {
	r := &Renderer{Fetcher: &fakeFetcher{assets: map[string][]byte{
		"ok.png": encodePNG(t, solidNRGBA(t, 8, 8, color.NRGBA{R: 255, A: 255})),
	}}}

	_, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "ok.png"},
		{Category: "fur", Ref: "missing.png"},
	}, 0)
	var fe *fetch.Error
	if !errors.As(err, &fe) {
		t.Fatalf("Expected fetch error to abort the run, got %v", err)
	}
}

func TestCompose_FetchFailureSkipLayer(t *testing.T) {
	r := &Renderer{
		Fetcher: &fakeFetcher{assets: map[string][]byte{
			"ok.png": encodePNG(t, solidNRGBA(t, 8, 8, color.NRGBA{G: 255, A: 255})),
		}},
		Options: Options{MissingLayers: SkipLayer},
	}

	res, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "ok.png"},
		{Category: "fur", Ref: "missing.png"},
	}, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "missing.png" {
		t.Errorf("Expected missing.png reported as skipped, got %v", res.Skipped)
	}
	if res.Format != FormatPNG {
		t.Errorf("Expected png from the surviving layer, got %s", res.Format)
	}
}

func TestCompose_AllLayersSkipped(t *testing.T) {
	r := &Renderer{
		Fetcher: &fakeFetcher{},
		Options: Options{MissingLayers: SkipLayer},
	}
	_, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "gone.png"},
	}, 0)
	if !errors.Is(err, ErrNoLayers) {
		t.Fatalf("Expected ErrNoLayers when every layer is skipped, got %v", err)
	}
}

func TestCompose_DecodeFailureAborts(t *testing.T) {
	r := &Renderer{
		Fetcher: &fakeFetcher{assets: map[string][]byte{
			"bad.png": []byte("definitely not an image"),
		}},
		// Lenient policy covers fetches only; rot in the bytes still aborts.
		Options: Options{MissingLayers: SkipLayer},
	}
	_, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "bad.png"},
	}, 0)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("Expected DecodeError, got %v", err)
	}
	if de.Ref != "bad.png" {
		t.Errorf("Expected offending ref recorded, got %q", de.Ref)
	}
}

func TestCompose_HeterogeneousStaticsUseConfiguredCanvas(t *testing.T) {
	r := &Renderer{
		Fetcher: &fakeFetcher{assets: map[string][]byte{
			"small.png": encodePNG(t, solidNRGBA(t, 10, 10, color.NRGBA{R: 255, A: 255})),
			"large.png": encodePNG(t, solidNRGBA(t, 20, 20, color.NRGBA{B: 255, A: 255})),
		}},
		Options: Options{CanvasWidth: 50, CanvasHeight: 40},
	}

	res, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "small.png"},
		{Category: "fur", Ref: "large.png"},
	}, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Width != 50 || res.Height != 40 {
		t.Errorf("Expected 50x40 fallback canvas, got %dx%d", res.Width, res.Height)
	}
}

func TestCompose_AnimatedLayerDictatesCanvas(t *testing.T) {
	r := &Renderer{Fetcher: &fakeFetcher{assets: map[string][]byte{
		"anim.gif":   encodeAnimatedGIF(t, 8, 8, 2, 5, []color.RGBA{{R: 255, A: 255}}),
		"static.png": encodePNG(t, solidNRGBA(t, 64, 64, color.NRGBA{G: 255, A: 255})),
	}}}

	res, err := r.Compose(context.Background(), []Input{
		{Category: "background", Ref: "static.png"},
		{Category: "fur", Ref: "anim.gif"},
	}, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Width != 8 || res.Height != 8 {
		t.Errorf("Expected the animated layer's 8x8 canvas, got %dx%d", res.Width, res.Height)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	assets := map[string][]byte{
		"bg.gif":  encodeAnimatedGIF(t, 16, 16, 4, 8, []color.RGBA{{R: 200, A: 255}, {B: 200, A: 255}}),
		"fur.png": furPNG(t),
	}
	r := &Renderer{Fetcher: &fakeFetcher{assets: assets}}
	inputs := []Input{
		{Category: "background", Ref: "bg.gif"},
		{Category: "fur", Ref: "fur.png"},
	}

	first, err := r.Compose(context.Background(), inputs, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := r.Compose(context.Background(), inputs, 2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(first.Bytes, second.Bytes) {
		t.Error("Expected byte-identical output for identical input")
	}
}
