package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"avatarforge/internal/composite"
	"avatarforge/internal/sheet"
)

// handlePreview composites the session's current selection and streams
// the image back. Answers 422 when nothing is selected and 409 when a
// newer selection superseded this run while it was compositing.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.composeSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", res.MIMEType())
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(res.Bytes); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleDownload is the preview with a save-as disposition; the
// filename follows the nft-avatar.<ext> convention.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	res, ok := s.composeSession(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", res.MIMEType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="nft-avatar.%s"`, res.Ext()))
	if _, err := w.Write(res.Bytes); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// composeSession runs the pipeline for the caller's session selection,
// enforcing stale-run suppression. On failure it writes the response
// itself and reports ok=false.
func (s *Server) composeSession(w http.ResponseWriter, r *http.Request) (*composite.Result, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	ctx := r.Context()
	st, id := s.getOrCreateState(ctx, w, r)

	inputs := s.inputs(st.Selection)
	if len(inputs) == 0 {
		http.Error(w, "no traits selected", http.StatusUnprocessableEntity)
		return nil, false
	}

	res, err := s.Renderer.Compose(ctx, inputs, st.Generation)
	if err != nil {
		if errors.Is(err, composite.ErrNoLayers) {
			http.Error(w, "no traits selected", http.StatusUnprocessableEntity)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return nil, false
	}

	// Only the newest selection's composite is ever relevant.
	if cur, ok, _ := s.Store.Get(ctx, id); ok && cur.Generation != res.Generation {
		http.Error(w, "superseded by a newer selection", http.StatusConflict)
		return nil, false
	}
	return res, true
}

type exportRequest struct {
	TraitURLs []string `json:"traitUrls"`
}

type exportResponse struct {
	Success    bool   `json:"success"`
	ImageData  string `json:"imageData"`
	Format     string `json:"format"`
	FrameCount int    `json:"frameCount"`
}

type exportError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// handleExport composites an explicit z-ordered list of layer URLs and
// answers a base64 data URI. This is the stateless server-side export:
// no session, no catalog lookup.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, exportError{Error: "method not allowed"})
		return
	}
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, exportError{Error: "invalid request body", Details: err.Error()})
		return
	}
	if len(req.TraitURLs) == 0 {
		s.writeJSON(w, http.StatusBadRequest, exportError{Error: "no trait urls provided"})
		return
	}

	inputs := make([]composite.Input, len(req.TraitURLs))
	for i, u := range req.TraitURLs {
		inputs[i] = composite.Input{Category: fmt.Sprintf("layer-%d", i), Ref: u}
	}

	res, err := s.Renderer.Compose(r.Context(), inputs, 0)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, composite.ErrNoLayers) {
			status = http.StatusBadRequest
		}
		s.writeJSON(w, status, exportError{Error: "composite failed", Details: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, exportResponse{
		Success:    true,
		ImageData:  fmt.Sprintf("data:%s;base64,%s", res.MIMEType(), base64.StdEncoding.EncodeToString(res.Bytes)),
		Format:     string(res.Format),
		FrameCount: res.FrameCount,
	})
}

// handleSheet renders the mint-sheet PDF for the current selection. The
// avatar is embedded as a still: animated composites contribute their
// first frame.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.composeSession(w, r)
	if !ok {
		return
	}

	still := res.Bytes
	if res.Format == composite.FormatGIF {
		layer, err := composite.DecodeGIF(res.Bytes)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		still, err = composite.EncodeStill(layer.Frames[0].Pix)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	st, _ := s.getOrCreateState(r.Context(), w, r)
	title := s.Catalog.Title
	if title == "" {
		title = "Avatar Mint Sheet"
	}
	pdf, err := sheet.Generate(title, s.Catalog.Ordered(st.Selection), still)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="nft-avatar-sheet.pdf"`)
	if _, err := w.Write(pdf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
