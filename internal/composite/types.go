// Package composite turns an ordered stack of trait images, some of
// them animated GIFs, into a single flattened PNG or a re-synchronized
// animated GIF.
package composite

import "image"

// Frame is one decoded animation frame in straight-alpha NRGBA.
type Frame struct {
	Pix     *image.NRGBA
	DelayMS int
}

// Layer is a fully decoded trait image: one frame for static rasters,
// several for animated GIFs. Frames are coalesced to the layer's full
// canvas; a Layer is never mutated after decoding.
type Layer struct {
	Width    int
	Height   int
	Frames   []Frame
	Animated bool
}

// FrameCount never reports less than 1 for a decoded layer.
func (l *Layer) FrameCount() int {
	return len(l.Frames)
}

// Format tags the payload of a Result.
type Format string

const (
	FormatPNG Format = "png"
	FormatGIF Format = "gif"
)

// Result is the outcome of one pipeline run. Ownership of Bytes passes
// to the caller.
type Result struct {
	Format     Format
	Bytes      []byte
	FrameCount int
	Width      int
	Height     int

	// Generation echoes the run tag the caller supplied, so stale
	// results from superseded runs can be discarded.
	Generation uint64

	// Skipped lists refs dropped under the SkipLayer policy.
	Skipped []string
}

// Ext returns the file extension matching the result format.
func (r *Result) Ext() string {
	return string(r.Format)
}

// MIMEType returns the content type of Bytes.
func (r *Result) MIMEType() string {
	if r.Format == FormatGIF {
		return "image/gif"
	}
	return "image/png"
}
