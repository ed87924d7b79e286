package web

import (
	"bytes"
	"image/png"
	"net/http"
	"strings"

	"avatarforge/internal/catalog"
	"avatarforge/internal/composite"

	"github.com/disintegration/imaging"
)

const thumbSize = 96

// handleThumb serves a small square preview of one trait image for the
// picker grid. URL shape: /thumb/<category>/<value>. Only traits the
// catalog offers resolve; everything else is a 404, so the route can
// never be used to probe arbitrary files. Animated traits contribute
// their first frame.
func (s *Server) handleThumb(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/thumb/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		http.NotFound(w, r)
		return
	}
	tr, ok := s.Catalog.Trait(catalog.Category(parts[0]), parts[1])
	if !ok {
		http.NotFound(w, r)
		return
	}

	b, err := s.Renderer.Fetcher.Fetch(r.Context(), tr.ImageRef)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	layer, err := composite.DecodeLayer(b)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// NearestNeighbor keeps the pixel-art edges trait assets tend to have.
	thumb := imaging.Thumbnail(layer.Frames[0].Pix, thumbSize, thumbSize, imaging.NearestNeighbor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", assetCacheControl)
	if _, err := w.Write(buf.Bytes()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
