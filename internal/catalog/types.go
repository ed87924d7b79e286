package catalog

// Category identifies one trait slot on the avatar.
type Category string

const (
	Background Category = "background"
	Fur        Category = "fur"
	Face       Category = "face"
	Eyes       Category = "eyes"
	Mouth      Category = "mouth"
	Head       Category = "head"
	Mask       Category = "mask"
	Minion     Category = "minion"
)

// ZOrder is the canonical back-to-front draw order. Compositing must
// apply layers in exactly this order regardless of selection order.
var ZOrder = []Category{Background, Fur, Face, Eyes, Mouth, Head, Mask, Minion}

// Trait is one selectable option within a category. ImageRef resolves
// to image bytes through a fetcher; the bytes may be a static raster or
// an animated GIF.
type Trait struct {
	Name     string `yaml:"name"`
	Value    string `yaml:"value"`
	ImageRef string `yaml:"image"`
}

// Section groups the traits offered for one category.
type Section struct {
	Name   Category `yaml:"name"`
	Traits []Trait  `yaml:"traits"`
}

// Catalog is the full trait palette plus compositing defaults.
type Catalog struct {
	Title          string    `yaml:"title"`
	CanvasWidth    int       `yaml:"canvasWidth"`
	CanvasHeight   int       `yaml:"canvasHeight"`
	AlphaThreshold int       `yaml:"alphaThreshold"`
	Sections       []Section `yaml:"categories"`
}

// Selection maps a category to the value of the chosen trait. A missing
// or empty entry means no trait is selected for that slot.
type Selection map[Category]string

// SelectedTrait pairs a category with its resolved trait for rendering.
type SelectedTrait struct {
	Category Category
	Trait    Trait
}
