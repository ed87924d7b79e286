package web

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const assetCacheControl = "public, max-age=3600"

// Content types for the raster formats trait art ships in.
var assetContentTypes = map[string]string{
	".png":  "image/png",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
}

// handleTraitAsset serves raw trait images from the asset directory.
// URL shape: /traits/<category>/<file>. The path is validated against
// traversal before touching the filesystem.
func (s *Server) handleTraitAsset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rel, ok := s.assetPath("/traits/", r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	contentType, ok := assetContentTypes[strings.ToLower(filepath.Ext(rel))]
	if !ok {
		http.NotFound(w, r)
		return
	}

	full := filepath.Join(s.AssetDir, rel)
	f, err := os.Open(full) // #nosec G304 -- full is under validated AssetDir
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", assetCacheControl)
	http.ServeContent(w, r, filepath.Base(full), info.ModTime(), f)
}

// assetPath strips the route prefix and validates the remainder as a
// safe relative path: <category>/<filename>, no traversal, no absolute
// paths.
func (s *Server) assetPath(prefix, urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, prefix) {
		return "", false
	}
	rest := strings.Trim(strings.TrimPrefix(urlPath, prefix), "/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	category, filename := parts[0], filepath.Clean(parts[1])
	if filename == "." || strings.Contains(filename, "..") ||
		filepath.IsAbs(filename) || strings.Contains(filename, string(filepath.Separator)) {
		return "", false
	}

	rel := filepath.Join(category, filename)
	resolved := filepath.Join(s.AssetDir, rel)
	back, err := filepath.Rel(s.AssetDir, resolved)
	if err != nil || strings.Contains(back, "..") {
		return "", false
	}
	return rel, true
}
