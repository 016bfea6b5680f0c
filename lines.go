package pdfredact

import (
	"math"
	"sort"
	"unicode"
)

// NewPage groups positioned glyphs into printed lines and returns the page.
// Lines are ordered top to bottom and glyphs within a line left to right.
func NewPage(number int, width, height float64, glyphs []Glyph) Page {
	return Page{
		Number: number,
		Width:  width,
		Height: height,
		Lines:  groupGlyphsIntoLines(glyphs),
	}
}

// groupGlyphsIntoLines groups glyphs into lines using baseline proximity.
// Glyphs are expected in extraction order, which is reading order for most
// content streams; a glyph whose baseline is within the threshold of an
// existing line joins that line regardless of where it appeared.
func groupGlyphsIntoLines(glyphs []Glyph) []Line {
	if len(glyphs) == 0 {
		return nil
	}

	type lineAcc struct {
		glyphs   []Glyph
		box      Rect
		baseline float64
		height   float64
	}

	var lines []*lineAcc
	var prev Rect
	seen := false
	for _, g := range glyphs {
		// Generated whitespace often has a degenerate box; place it right after
		// the previous glyph so it stays between the words it separates.
		if unicode.IsSpace(g.Text) && g.Box.Height() <= 0 {
			if !seen {
				continue
			}
			g.Box = Rect{X0: prev.X1, Y0: prev.Y0, X1: prev.X1, Y1: prev.Y1}
		}
		prev, seen = g.Box, true

		var target *lineAcc
		for _, l := range lines {
			// Adaptive threshold based on glyph height
			threshold := 0.4 * math.Max(l.height, g.Box.Height())
			if threshold == 0 {
				threshold = 3.0 // Fallback to fixed threshold
			}
			if math.Abs(g.Baseline()-l.baseline) < threshold {
				target = l
				break
			}
		}

		if target == nil {
			lines = append(lines, &lineAcc{
				glyphs:   []Glyph{g},
				box:      g.Box,
				baseline: g.Baseline(),
				height:   g.Box.Height(),
			})
			continue
		}

		target.glyphs = append(target.glyphs, g)
		target.box = mergeRects(target.box, g.Box)
		target.height = math.Max(target.height, g.Box.Height())
		// Update baseline to weighted average
		n := float64(len(target.glyphs))
		target.baseline = (target.baseline*(n-1) + g.Baseline()) / n
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].baseline < lines[j].baseline
	})

	result := make([]Line, 0, len(lines))
	for _, l := range lines {
		sort.SliceStable(l.glyphs, func(i, j int) bool {
			return l.glyphs[i].Box.X0 < l.glyphs[j].Box.X0
		})
		result = append(result, Line{
			Glyphs:   l.glyphs,
			Box:      l.box,
			Baseline: l.baseline,
			Height:   l.height,
		})
	}

	return result
}
