// Package pdftext loads positioned text from PDFs with a pure Go reader.
// It needs no pdfium runtime, at the cost of weaker handling of unusual font
// encodings.
package pdftext

import (
	"unicode/utf8"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/ivanvanderbyl/pdfredact"
)

// Default page size (US Letter) when a page has no usable MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Load reads every page of the PDF at path.
func Load(path string) (*pdfredact.Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF document")
	}
	defer f.Close()

	doc := &pdfredact.Document{}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		width, height := pageSize(page)
		glyphs := runsToGlyphs(page.Content().Text, height)
		doc.Pages = append(doc.Pages, pdfredact.NewPage(i, width, height, glyphs))
	}

	return doc, nil
}

// pageSize reads the page's MediaBox.
func pageSize(page pdflib.Page) (float64, float64) {
	box := page.V.Key("MediaBox")
	if box.Len() != 4 {
		return defaultPageWidth, defaultPageHeight
	}
	width := box.Index(2).Float64() - box.Index(0).Float64()
	height := box.Index(3).Float64() - box.Index(1).Float64()
	if width <= 0 || height <= 0 {
		return defaultPageWidth, defaultPageHeight
	}
	return width, height
}

// runsToGlyphs converts text runs to glyphs in top-left page coordinates.
// Runs usually hold one character; longer runs are split evenly across their width.
func runsToGlyphs(runs []pdflib.Text, pageHeight float64) []pdfredact.Glyph {
	glyphs := make([]pdfredact.Glyph, 0, len(runs))
	for _, run := range runs {
		n := utf8.RuneCountInString(run.S)
		if n == 0 {
			continue
		}

		// Y is the baseline in PDF coordinates (origin bottom-left)
		bottom := pageHeight - run.Y
		top := bottom - run.FontSize
		step := run.W / float64(n)

		j := 0
		for _, r := range run.S {
			if r == '\n' || r == '\r' {
				j++
				continue
			}
			x0 := run.X + float64(j)*step
			glyphs = append(glyphs, pdfredact.Glyph{
				Text:     r,
				Box:      pdfredact.Rect{X0: x0, Y0: top, X1: x0 + step, Y1: bottom},
				FontSize: run.FontSize,
			})
			j++
		}
	}
	return glyphs
}
