package pdfredact

// Internals exposed to the external test package.
var (
	MatchKind    = matchKind
	MergeByStart = mergeByStart
)

const (
	PlainGlyphWidth  = plainGlyphWidth
	PlainGlyphHeight = plainGlyphHeight
	PlainLinePitch   = plainLinePitch
	PlainMargin      = plainMargin
)
