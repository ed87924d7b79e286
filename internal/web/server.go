package web

import (
	"context"
	"html/template"
	"net/http"

	"avatarforge/internal/catalog"
	"avatarforge/internal/composite"
	"avatarforge/internal/session"
)

// ViewerState is one browser's studio state: the current trait
// selection and a run generation bumped on every change. Composites
// carrying an older generation are stale and discarded.
type ViewerState struct {
	Selection  catalog.Selection
	Generation uint64
}

type Server struct {
	Catalog  *catalog.Catalog
	Renderer *composite.Renderer
	Store    session.Store[ViewerState]
	Tmpl     *template.Template

	// AssetDir is the local directory trait image refs resolve under.
	AssetDir string
}

const cookieName = "avatar_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)

	mux.HandleFunc("/picker", s.handlePicker)
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/selection", s.handleSelection)
	mux.HandleFunc("/randomize", s.handleRandomize)
	mux.HandleFunc("/reset", s.handleReset)

	mux.HandleFunc("/preview", s.handlePreview)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/sheet", s.handleSheet)

	mux.HandleFunc("/thumb/", s.handleThumb)
	mux.HandleFunc("/traits/", s.handleTraitAsset)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/picker", http.StatusFound)
}

func (s *Server) getOrCreateState(ctx context.Context, w http.ResponseWriter, r *http.Request) (ViewerState, string) {
	id := s.sessionID(r)
	if id == "" {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		st := ViewerState{Selection: catalog.Selection{}}
		_ = s.Store.Put(ctx, id, st)
		return st, id
	}

	st, ok, _ := s.Store.Get(ctx, id)
	if !ok {
		st = ViewerState{Selection: catalog.Selection{}}
		_ = s.Store.Put(ctx, id, st)
	}
	if st.Selection == nil {
		st.Selection = catalog.Selection{}
	}
	return st, id
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// inputs resolves the session selection to the z-ordered layer stack
// fed into the renderer.
func (s *Server) inputs(sel catalog.Selection) []composite.Input {
	ordered := s.Catalog.Ordered(sel)
	in := make([]composite.Input, 0, len(ordered))
	for _, st := range ordered {
		in = append(in, composite.Input{
			Category: string(st.Category),
			Ref:      st.Trait.ImageRef,
		})
	}
	return in
}
