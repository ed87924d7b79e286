// Package sheet renders a printable "mint sheet" PDF for an avatar: the
// composited still plus the trait table, suitable for saving alongside
// the exported image.
package sheet

import (
	"bytes"
	"fmt"
	"strings"

	"avatarforge/internal/catalog"

	"github.com/jung-kurt/gofpdf/v2"
)

const (
	pageW     = 595
	pageH     = 842
	margin    = 40
	titleSize = 18
	fontSize  = 10
	rowH      = 16.0
	imageSize = 300.0
)

// Generate returns PDF bytes for a mint sheet: the avatar still (PNG
// bytes) centered up top, the selected traits tabulated below. An empty
// avatarPNG produces a sheet with the table only.
func Generate(title string, traits []catalog.SelectedTrait, avatarPNG []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.SetTextColor(30, 30, 40)
	pdf.CellFormat(pageW-2*margin, 24, title, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	y := pdf.GetY()
	if len(avatarPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("avatar", opts, bytes.NewReader(avatarPNG))
		x := (pageW - imageSize) / 2
		pdf.ImageOptions("avatar", x, y, imageSize, imageSize, false, opts, 0, "")
		// Frame around the avatar
		pdf.SetDrawColor(30, 30, 40)
		pdf.SetLineWidth(2)
		pdf.Rect(x, y, imageSize, imageSize, "D")
		pdf.SetY(y + imageSize + 24)
	}

	// Trait table
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(235, 235, 240)
	pdf.SetDrawColor(120, 120, 130)
	pdf.SetLineWidth(0.5)
	pdf.CellFormat(160, rowH, "Category", "1", 0, "L", true, 0, "")
	pdf.CellFormat(pageW-2*margin-160, rowH, "Trait", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", fontSize)
	for _, st := range traits {
		name := st.Trait.Name
		if name == "" {
			name = st.Trait.Value
		}
		pdf.CellFormat(160, rowH, titleCase(string(st.Category)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pageW-2*margin-160, rowH, name, "1", 1, "L", false, 0, "")
	}
	if len(traits) == 0 {
		pdf.CellFormat(pageW-2*margin, rowH, "No traits selected", "1", 1, "C", false, 0, "")
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 130)
	pdf.CellFormat(pageW-2*margin, 12,
		fmt.Sprintf("%d of %d trait slots filled", len(traits), len(catalog.ZOrder)),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
