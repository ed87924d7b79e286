package web

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"net/http"

	"avatarforge/internal/catalog"
)

type pickerSection struct {
	Category catalog.Category
	Traits   []catalog.Trait
	Selected string
}

type pickerView struct {
	Title      string
	Sections   []pickerSection
	Generation uint64
}

func (s *Server) handlePicker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, _ := s.getOrCreateState(r.Context(), w, r)

	vm := pickerView{Title: s.Catalog.Title, Generation: st.Generation}
	for _, cat := range catalog.ZOrder {
		sec := s.Catalog.Section(cat)
		if sec == nil {
			continue
		}
		vm.Sections = append(vm.Sections, pickerSection{
			Category: cat,
			Traits:   sec.Traits,
			Selected: st.Selection[cat],
		})
	}

	if err := s.Tmpl.ExecuteTemplate(w, "layout.html", vm); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleSelect sets or clears one category's trait. Form fields:
// category, value (empty value clears the slot). Every accepted change
// bumps the run generation so in-flight previews become stale.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	st, id := s.getOrCreateState(ctx, w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	cat := catalog.Category(r.FormValue("category"))
	value := r.FormValue("value")

	if s.Catalog.Section(cat) == nil {
		http.Error(w, "unknown category", http.StatusBadRequest)
		return
	}
	if value != "" {
		if _, ok := s.Catalog.Trait(cat, value); !ok {
			http.Error(w, "unknown trait", http.StatusBadRequest)
			return
		}
	}

	if value == "" {
		delete(st.Selection, cat)
	} else {
		st.Selection[cat] = value
	}
	st.Generation++
	_ = s.Store.Put(ctx, id, st)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"generation": st.Generation,
		"selection":  st.Selection,
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	st, _ := s.getOrCreateState(r.Context(), w, r)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"generation": st.Generation,
		"selection":  st.Selection,
	})
}

// handleRandomize picks one random trait for every offered category.
func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	st, id := s.getOrCreateState(ctx, w, r)

	for _, sec := range s.Catalog.Sections {
		if len(sec.Traits) == 0 {
			continue
		}
		st.Selection[sec.Name] = sec.Traits[randomIndex(len(sec.Traits))].Value
	}
	st.Generation++
	_ = s.Store.Put(ctx, id, st)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"generation": st.Generation,
		"selection":  st.Selection,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	if id := s.sessionID(r); id != "" {
		_ = s.Store.Delete(ctx, id)
	}
	http.Redirect(w, r, "/picker", http.StatusSeeOther)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// crypto-rand pick; uniform enough for trait counts this small
func randomIndex(n int) int {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int(binary.LittleEndian.Uint64(b[:]) % uint64(n))
}
