package pdfredact

import "math"

// Point is a position on a page.
type Point struct {
	X float64
	Y float64
}

// Zone is the part of a match printed on a single line of a single page.
// Start and End lie on the line's baseline.
type Zone struct {
	Page        int
	Line        int
	Start       Point
	End         Point
	Height      float64
	StartOffset int // Inclusive
	EndOffset   int // Inclusive
}

// Rect returns the zone's bounding rectangle.
func (z Zone) Rect() Rect {
	return Rect{
		X0: z.Start.X,
		Y0: z.Start.Y - z.Height,
		X1: z.End.X,
		Y1: z.End.Y,
	}
}

// Region is the spatial form of a match: one zone per printed line touched,
// in reading order.
type Region []Zone

// Pages returns the distinct page numbers the region touches, ascending.
func (r Region) Pages() []int {
	var pages []int
	for _, z := range r {
		if len(pages) == 0 || pages[len(pages)-1] != z.Page {
			pages = append(pages, z.Page)
		}
	}
	return pages
}

// Intersects reports whether any zone on page overlaps rect.
func (r Region) Intersects(page int, rect Rect) bool {
	for _, z := range r {
		if z.Page == page && rectsOverlap(z.Rect(), rect) {
			return true
		}
	}
	return false
}

// zoneRun accumulates a contiguous run of offsets on one printed line.
type zoneRun struct {
	start, end int
	anchor     *Anchor // first anchored character; nil while only separators seen
	x0, x1     float64
}

func (r *zoneRun) add(offset int, a *Anchor) {
	r.end = offset
	if a == nil {
		return
	}
	if r.anchor == nil {
		r.anchor = a
		r.x0, r.x1 = a.X0, a.X1
		return
	}
	r.x0 = math.Min(r.x0, a.X0)
	r.x1 = math.Max(r.x1, a.X1)
}

func (r *zoneRun) zone() (Zone, bool) {
	if r.anchor == nil {
		return Zone{}, false
	}
	return Zone{
		Page:        r.anchor.Page,
		Line:        r.anchor.Line,
		Start:       Point{X: r.x0, Y: r.anchor.Baseline},
		End:         Point{X: r.x1, Y: r.anchor.Baseline},
		Height:      r.anchor.Height,
		StartOffset: r.start,
		EndOffset:   r.end,
	}, true
}

// BuildRegion converts a match's inclusive offset span into zones, one per
// maximal run of characters sharing a page and line. Non-spatial characters
// belong to the run they fall in but add no geometry; a run made only of
// non-spatial characters yields no zone.
func BuildRegion(text *Text, m Match) Region {
	start := max(m.StartOffset, 0)
	end := min(m.EndOffset, text.Len()-1)
	if start > end {
		return nil
	}

	var region Region
	run := &zoneRun{start: start, end: start}

	for i := start; i <= end; i++ {
		a := text.At(i).Anchor
		if a != nil && run.anchor != nil && !run.anchor.sameLine(a) {
			if z, ok := run.zone(); ok {
				region = append(region, z)
			}
			run = &zoneRun{start: i, end: i}
		}
		run.add(i, a)
	}

	if z, ok := run.zone(); ok {
		region = append(region, z)
	}

	return region
}
