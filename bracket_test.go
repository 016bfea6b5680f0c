package pdfredact_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdfredact "github.com/ivanvanderbyl/pdfredact"
)

var squareOnly = pdfredact.BracketConfig{Square: true}

var allKinds = pdfredact.BracketConfig{Square: true, Curved: true, Curly: true}

// matchTexts returns the text of each match, in order.
func matchTexts(text *pdfredact.Text, matches pdfredact.MatchCollection) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = text.Slice(m.StartOffset, m.EndOffset)
	}
	return out
}

func plainText(s string) *pdfredact.Text {
	return pdfredact.NewPlainTextDocument(s).Text()
}

func TestMatchBrackets_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:  "siblings",
			input: "[There should be ] [three matches] for [this string]",
			expected: []string{
				"[There should be ]",
				"[three matches]",
				"[this string]",
			},
		},
		{
			name:  "nested",
			input: "[There should [be [three matches] for this] string]",
			expected: []string{
				"[There should [be [three matches] for this] string]",
				"[be [three matches] for this]",
				"[three matches]",
			},
		},
		{
			name:  "unmatched outer open",
			input: "[There should [be [two matches for this] string]",
			expected: []string{
				"[be [two matches for this] string]",
				"[two matches for this]",
			},
		},
		{
			name:  "stray close",
			input: "[There should be ] two matches] for [this string]",
			expected: []string{
				"[There should be ]",
				"[this string]",
			},
		},
		{
			name:     "empty content",
			input:    "a [] b",
			expected: []string{"[]"},
		},
		{
			name:     "lone close",
			input:    "nothing to see] here",
			expected: []string{},
		},
		{
			name:     "no delimiters",
			input:    "plain text only",
			expected: []string{},
		},
		{
			name:     "empty document",
			input:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := plainText(tt.input)
			matches := pdfredact.MatchBrackets(text, squareOnly)
			assert.Equal(t, tt.expected, matchTexts(text, matches))
		})
	}
}

func TestMatchBrackets_AcrossLineBreak(t *testing.T) {
	text := plainText("[There should be three matches\n] on two lines")
	matches := pdfredact.MatchBrackets(text, squareOnly)

	require.Len(t, matches, 1)
	assert.Equal(t, "[There should be three matches\n]", text.Slice(matches[0].StartOffset, matches[0].EndOffset))
}

func TestMatchBrackets_AllKinds(t *testing.T) {
	text := plainText("f(x) = {a: [1, 2], b: (3)}")
	matches := pdfredact.MatchBrackets(text, allKinds)

	assert.Equal(t, []string{
		"(x)",
		"{a: [1, 2], b: (3)}",
		"[1, 2]",
		"(3)",
	}, matchTexts(text, matches))
	assert.Equal(t, pdfredact.Curved, matches[0].Kind)
	assert.Equal(t, pdfredact.Curly, matches[1].Kind)
	assert.Equal(t, pdfredact.Square, matches[2].Kind)
}

func TestMatchBrackets_KindsDoNotInteract(t *testing.T) {
	text := plainText("[a(b]c)")

	square := pdfredact.MatchBrackets(text, squareOnly)
	assert.Equal(t, []string{"[a(b]"}, matchTexts(text, square))

	both := pdfredact.MatchBrackets(text, pdfredact.BracketConfig{Square: true, Curved: true})
	assert.Equal(t, []string{"[a(b]", "(b]c)"}, matchTexts(text, both))
}

func TestMatchBrackets_DisabledKindIsOrdinaryText(t *testing.T) {
	with := plainText("[one (two] three)")
	without := plainText("[one  two] three ")

	assert.Equal(t,
		pdfredact.MatchBrackets(without, squareOnly),
		pdfredact.MatchBrackets(with, squareOnly),
	)
}

func TestMatchBrackets_NothingEnabled(t *testing.T) {
	text := plainText("[a] (b) {c}")
	assert.Empty(t, pdfredact.MatchBrackets(text, pdfredact.BracketConfig{}))
	assert.Empty(t, pdfredact.MatchBracketsConcurrent(text, pdfredact.BracketConfig{}))
}

func TestMatchBrackets_FoldWidth(t *testing.T) {
	text := plainText("name ［redacted］ and （this）")

	assert.Empty(t, pdfredact.MatchBrackets(text, allKinds))

	folded := pdfredact.MatchBrackets(text, pdfredact.BracketConfig{Square: true, Curved: true, FoldWidth: true})
	assert.Equal(t, []string{"［redacted］", "（this）"}, matchTexts(text, folded))
}

func TestMatchBrackets_SeparatorsIgnored(t *testing.T) {
	text := plainText("[first\fsecond page]")
	matches := pdfredact.MatchBrackets(text, squareOnly)

	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].StartOffset)
	assert.Equal(t, text.Len()-1, matches[0].EndOffset)
}

// randomBracketText builds text over a small alphabet rich in delimiters.
func randomBracketText(rng *rand.Rand, n int) string {
	const alphabet = "[](){}ab \n"
	var sb strings.Builder
	for range n {
		sb.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return sb.String()
}

// balanced builds a well-formed square bracket string with exactly pairs pairs.
func balanced(rng *rand.Rand, pairs int) string {
	if pairs == 0 {
		return ""
	}
	inner := rng.Intn(pairs)
	return "x[" + balanced(rng, inner) + "]y" + balanced(rng, pairs-1-inner)
}

func TestMatchBrackets_BalanceCounting(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for pairs := 0; pairs < 40; pairs++ {
		input := balanced(rng, pairs)
		matches := pdfredact.MatchBrackets(plainText(input), squareOnly)
		assert.Len(t, matches, pairs, "input %q", input)
	}
}

func TestMatchBrackets_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		input := randomBracketText(rng, 1+rng.Intn(80))
		text := plainText(input)
		all := pdfredact.MatchBrackets(text, allKinds)

		// Determinism
		require.Equal(t, all, pdfredact.MatchBrackets(text, allKinds), "input %q", input)

		// Concurrent scan agrees
		require.Equal(t, all, pdfredact.MatchBracketsConcurrent(text, allKinds), "input %q", input)

		starts := make(map[int]bool)
		for i, m := range all {
			require.Less(t, m.StartOffset, m.EndOffset)
			require.Equal(t, m.Kind.Open(), text.At(m.StartOffset).Text)
			require.Equal(t, m.Kind.Close(), text.At(m.EndOffset).Text)
			require.False(t, starts[m.StartOffset], "duplicate start %d", m.StartOffset)
			starts[m.StartOffset] = true

			if i > 0 {
				require.Less(t, all[i-1].StartOffset, m.StartOffset)
			}
		}

		// Enclosing matches come first
		for i, a := range all {
			for j, b := range all {
				if a.StartOffset < b.StartOffset && b.EndOffset < a.EndOffset {
					require.Less(t, i, j, "input %q", input)
				}
			}
		}

		// Kind independence
		for _, kind := range allKinds.Kinds() {
			var fromAll pdfredact.MatchCollection
			for _, m := range all {
				if m.Kind == kind {
					fromAll = append(fromAll, m)
				}
			}
			alone := pdfredact.MatchKind(text, allKinds, kind)
			require.Equal(t, fromAll, alone, "kind %s input %q", kind, input)
		}
	}
}

func TestMergeByStart(t *testing.T) {
	a := pdfredact.MatchCollection{{Kind: pdfredact.Square, StartOffset: 0, EndOffset: 9}, {Kind: pdfredact.Square, StartOffset: 5, EndOffset: 6}}
	b := pdfredact.MatchCollection{{Kind: pdfredact.Curved, StartOffset: 2, EndOffset: 3}}
	c := pdfredact.MatchCollection{}

	merged := pdfredact.MergeByStart([]pdfredact.MatchCollection{a, b, c})
	require.Len(t, merged, 3)
	assert.Equal(t, []int{0, 2, 5}, []int{merged[0].StartOffset, merged[1].StartOffset, merged[2].StartOffset})

	assert.Nil(t, pdfredact.MergeByStart(nil))
}

func TestBracketKind_Delimiters(t *testing.T) {
	tests := []struct {
		kind        pdfredact.BracketKind
		open, close rune
		name        string
	}{
		{pdfredact.Square, '[', ']', "square"},
		{pdfredact.Curved, '(', ')', "curved"},
		{pdfredact.Curly, '{', '}', "curly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, tt.kind.Open())
			assert.Equal(t, tt.close, tt.kind.Close())
			assert.Equal(t, tt.name, tt.kind.String())
		})
	}
}
