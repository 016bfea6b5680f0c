package pdfredact

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// LineSeparator is inserted between consecutive lines of a page.
	LineSeparator = '\n'
	// PageSeparator is inserted between consecutive pages.
	PageSeparator = '\f'
)

// Text is the flattened logical character stream of a document.
// Offsets are 0-based and contiguous across lines and pages. A Text is never
// modified after construction and may be shared between goroutines.
type Text struct {
	chars []Char
}

// NewText validates an externally built character stream.
// Offsets must match their position in the slice, and anchored characters must
// never move backwards in page or line order.
func NewText(chars []Char) (*Text, error) {
	var last *Anchor
	for i, c := range chars {
		if c.Offset != i {
			return nil, errors.Errorf("invalid offset %d at position %d", c.Offset, i)
		}
		if c.Anchor == nil {
			continue
		}
		if last != nil {
			if c.Anchor.Page < last.Page {
				return nil, errors.Errorf("page %d at offset %d precedes page %d", c.Anchor.Page, i, last.Page)
			}
			if c.Anchor.Page == last.Page && c.Anchor.Line < last.Line {
				return nil, errors.Errorf("line %d at offset %d precedes line %d on page %d", c.Anchor.Line, i, last.Line, last.Page)
			}
		}
		last = c.Anchor
	}

	owned := make([]Char, len(chars))
	copy(owned, chars)
	return &Text{chars: owned}, nil
}

// Text flattens the document into its logical stream. Lines of a page are
// joined by a non-spatial LineSeparator and pages by a non-spatial PageSeparator.
func (d *Document) Text() *Text {
	var chars []Char
	emit := func(r rune, anchor *Anchor) {
		chars = append(chars, Char{Offset: len(chars), Text: r, Anchor: anchor})
	}

	for pi, page := range d.Pages {
		if pi > 0 {
			emit(PageSeparator, nil)
		}
		for li, line := range page.Lines {
			if li > 0 {
				emit(LineSeparator, nil)
			}
			for _, g := range line.Glyphs {
				emit(g.Text, &Anchor{
					Page:     page.Number,
					Line:     li,
					X0:       g.Box.X0,
					X1:       g.Box.X1,
					Baseline: line.Baseline,
					Height:   line.Height,
				})
			}
		}
	}

	return &Text{chars: chars}
}

// Len returns the number of characters in the stream.
func (t *Text) Len() int {
	return len(t.chars)
}

// At returns the character at offset i.
func (t *Text) At(i int) Char {
	return t.chars[i]
}

// String returns the whole stream, separators included.
func (t *Text) String() string {
	var sb strings.Builder
	for _, c := range t.chars {
		sb.WriteRune(c.Text)
	}
	return sb.String()
}

// Slice returns the text of the inclusive offset range [start, end].
// The range is clamped to the stream.
func (t *Text) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(t.chars) {
		end = len(t.chars) - 1
	}
	if start > end {
		return ""
	}

	var sb strings.Builder
	for _, c := range t.chars[start : end+1] {
		sb.WriteRune(c.Text)
	}
	return sb.String()
}

// Plain text layout metrics, in points.
const (
	plainGlyphWidth  = 6.0
	plainGlyphHeight = 12.0
	plainLinePitch   = 14.0
	plainMargin      = 36.0
	plainPageWidth   = 612.0
	plainPageHeight  = 792.0
)

// NewPlainTextDocument lays out plain text on letter-sized pages using a fixed
// monospaced grid. '\n' starts a new line and '\f' starts a new page.
func NewPlainTextDocument(s string) *Document {
	doc := &Document{}
	for pi, pageText := range strings.Split(s, string(PageSeparator)) {
		page := Page{
			Number: pi + 1,
			Width:  plainPageWidth,
			Height: plainPageHeight,
		}
		for li, lineText := range strings.Split(pageText, string(LineSeparator)) {
			baseline := plainMargin + float64(li+1)*plainLinePitch
			line := Line{
				Baseline: baseline,
				Height:   plainGlyphHeight,
				Box: Rect{
					X0: plainMargin,
					Y0: baseline - plainGlyphHeight,
					X1: plainMargin,
					Y1: baseline,
				},
			}
			col := 0
			for _, r := range lineText {
				x := plainMargin + float64(col)*plainGlyphWidth
				line.Glyphs = append(line.Glyphs, Glyph{
					Text:     r,
					Box:      Rect{X0: x, Y0: baseline - plainGlyphHeight, X1: x + plainGlyphWidth, Y1: baseline},
					FontSize: plainGlyphHeight,
				})
				line.Box.X1 = x + plainGlyphWidth
				col++
			}
			page.Lines = append(page.Lines, line)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}
