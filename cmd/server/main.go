package main

import (
	"html/template"
	"log"
	"net/http"

	"avatarforge/internal/catalog"
	"avatarforge/internal/composite"
	"avatarforge/internal/fetch"
	"avatarforge/internal/session"
	"avatarforge/internal/web"
)

func main() {
	cat, err := catalog.Load("catalog/traits.yaml")
	if err != nil {
		log.Fatal(err)
	}

	tmpl := template.Must(template.ParseFiles(
		"templates/layout.html",
		"templates/picker.html",
	))

	const assetDir = "assets/traits"
	renderer := &composite.Renderer{
		Fetcher: &fetch.Auto{
			Remote: &fetch.HTTP{},
			Local:  &fetch.Dir{Base: assetDir},
		},
		Options: composite.Options{
			AlphaThreshold: uint8(cat.AlphaThreshold),
			CanvasWidth:    cat.CanvasWidth,
			CanvasHeight:   cat.CanvasHeight,
		},
	}

	srv := &web.Server{
		Catalog:  cat,
		Renderer: renderer,
		Store:    session.NewMemoryStore[web.ViewerState](),
		Tmpl:     tmpl,
		AssetDir: assetDir,
	}

	log.Println("listening on http://localhost:8080")
	log.Fatal(http.ListenAndServe(":8080", srv.Routes()))
}
