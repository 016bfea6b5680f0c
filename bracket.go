package pdfredact

import (
	"sort"
	"sync"

	"golang.org/x/text/width"
)

// BracketKind identifies a delimiter family.
type BracketKind int

const (
	Square BracketKind = iota // [ ]
	Curved                    // ( )
	Curly                     // { }

	numBracketKinds = 3
)

var bracketDelims = [numBracketKinds][2]rune{
	Square: {'[', ']'},
	Curved: {'(', ')'},
	Curly:  {'{', '}'},
}

// Open returns the opening delimiter of the kind.
func (k BracketKind) Open() rune {
	return bracketDelims[k][0]
}

// Close returns the closing delimiter of the kind.
func (k BracketKind) Close() rune {
	return bracketDelims[k][1]
}

func (k BracketKind) String() string {
	switch k {
	case Square:
		return "square"
	case Curved:
		return "curved"
	case Curly:
		return "curly"
	}
	return "unknown"
}

// BracketConfig selects which bracket kinds take part in matching.
// Delimiters of a disabled kind are ordinary text.
type BracketConfig struct {
	Square bool
	Curved bool
	Curly  bool

	// FoldWidth treats full-width delimiters (U+FF3B etc.), common in OCR
	// output, as their ASCII counterparts.
	FoldWidth bool
}

// Enabled reports whether kind participates in matching.
func (c BracketConfig) Enabled(kind BracketKind) bool {
	switch kind {
	case Square:
		return c.Square
	case Curved:
		return c.Curved
	case Curly:
		return c.Curly
	}
	return false
}

// Kinds returns the enabled kinds in declaration order.
func (c BracketConfig) Kinds() []BracketKind {
	var kinds []BracketKind
	for k := BracketKind(0); k < numBracketKinds; k++ {
		if c.Enabled(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Any reports whether at least one kind is enabled.
func (c BracketConfig) Any() bool {
	return c.Square || c.Curved || c.Curly
}

// Match is a matched delimiter pair. StartOffset is the offset of the opening
// delimiter and EndOffset that of its closing partner; both are inclusive.
type Match struct {
	Kind        BracketKind
	StartOffset int
	EndOffset   int
}

// MatchCollection is ordered ascending by StartOffset, so an enclosing match
// always precedes the matches nested inside it.
type MatchCollection []Match

// classify returns the kind r delimits under cfg and whether it opens.
// ok is false for any rune that doesn't affect a stack.
func (c BracketConfig) classify(r rune) (kind BracketKind, open bool, ok bool) {
	if c.FoldWidth && r > 0x7f {
		p := width.LookupRune(r)
		if narrow := p.Narrow(); narrow != 0 {
			r = narrow
		}
	}

	for k := BracketKind(0); k < numBracketKinds; k++ {
		if !c.Enabled(k) {
			continue
		}
		switch r {
		case k.Open():
			return k, true, true
		case k.Close():
			return k, false, true
		}
	}
	return 0, false, false
}

// MatchBrackets finds every matched delimiter pair of the enabled kinds in a
// single pass. Each kind keeps its own stack, so kinds never interact.
// Unmatched opening and closing delimiters are dropped silently.
func MatchBrackets(text *Text, cfg BracketConfig) MatchCollection {
	var stacks [numBracketKinds][]int
	var matches MatchCollection

	for i := 0; i < text.Len(); i++ {
		kind, open, ok := cfg.classify(text.At(i).Text)
		if !ok {
			continue
		}

		if open {
			stacks[kind] = append(stacks[kind], i)
			continue
		}

		stack := stacks[kind]
		if len(stack) == 0 {
			// Unmatched closing delimiter
			continue
		}
		start := stack[len(stack)-1]
		stacks[kind] = stack[:len(stack)-1]
		matches = append(matches, Match{Kind: kind, StartOffset: start, EndOffset: i})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].StartOffset < matches[j].StartOffset
	})

	return matches
}

// matchKind scans for a single kind. The result is sorted by StartOffset.
func matchKind(text *Text, cfg BracketConfig, kind BracketKind) MatchCollection {
	only := BracketConfig{FoldWidth: cfg.FoldWidth}
	switch kind {
	case Square:
		only.Square = true
	case Curved:
		only.Curved = true
	case Curly:
		only.Curly = true
	}
	return MatchBrackets(text, only)
}

// MatchBracketsConcurrent scans each enabled kind on its own goroutine and
// merges the sorted results. It returns the same collection as MatchBrackets.
func MatchBracketsConcurrent(text *Text, cfg BracketConfig) MatchCollection {
	kinds := cfg.Kinds()
	results := make([]MatchCollection, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind BracketKind) {
			defer wg.Done()
			results[i] = matchKind(text, cfg, kind)
		}(i, kind)
	}
	wg.Wait()

	return mergeByStart(results)
}

// mergeByStart interleaves sorted collections by StartOffset.
func mergeByStart(parts []MatchCollection) MatchCollection {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return nil
	}

	merged := make(MatchCollection, 0, total)
	idx := make([]int, len(parts))
	for len(merged) < total {
		best := -1
		for p := range parts {
			if idx[p] >= len(parts[p]) {
				continue
			}
			if best < 0 || parts[p][idx[p]].StartOffset < parts[best][idx[best]].StartOffset {
				best = p
			}
		}
		merged = append(merged, parts[best][idx[best]])
		idx[best]++
	}

	return merged
}
