package pdfredact

// Rect represents a bounding box in page coordinates.
type Rect struct {
	X0 float64 // Left
	Y0 float64 // Top (after conversion from PDF coordinates)
	X1 float64 // Right
	Y1 float64 // Bottom (after conversion from PDF coordinates)
}

// Width returns the width of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 {
	return (r.Y0 + r.Y1) / 2
}

// Glyph represents a single recognized character and where it was printed.
type Glyph struct {
	Text     rune
	Box      Rect
	FontSize float64
}

// Baseline approximates the glyph's baseline as the bottom of its box.
func (g Glyph) Baseline() float64 {
	return g.Box.Y1
}

// Line represents one printed line of text.
type Line struct {
	Glyphs   []Glyph // Left to right
	Box      Rect
	Baseline float64 // Y-coordinate of the baseline
	Height   float64 // Tallest glyph on the line
}

// Text returns the characters of the line in order.
func (l Line) Text() string {
	runes := make([]rune, len(l.Glyphs))
	for i, g := range l.Glyphs {
		runes[i] = g.Text
	}
	return string(runes)
}

// Page represents all recognized text on one page.
type Page struct {
	Number int // 1-indexed
	Width  float64
	Height float64
	Lines  []Line
}

// Document is an ordered sequence of pages, as produced by text extraction or OCR.
type Document struct {
	Pages []Page
}

// Anchor locates a character in the physical layout.
// X0/X1 are the character's own extent; Baseline and Height belong to its line.
type Anchor struct {
	Page     int
	Line     int // 0-indexed within the page
	X0       float64
	X1       float64
	Baseline float64
	Height   float64
}

// sameLine reports whether two anchors sit on the same printed line.
func (a *Anchor) sameLine(b *Anchor) bool {
	return a.Page == b.Page && a.Line == b.Line
}

// Char is one character of the flattened logical stream.
// A nil Anchor marks a non-spatial character such as an inserted line or page separator.
type Char struct {
	Offset int
	Text   rune
	Anchor *Anchor
}

// IsSpatial reports whether the character has a geometric anchor.
func (c Char) IsSpatial() bool {
	return c.Anchor != nil
}
