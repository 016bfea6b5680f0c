package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanvanderbyl/pdfredact"
)

func sym(text string, x0, x1 float64) symbol {
	return symbol{text: text, box: pdfredact.Rect{X0: x0, Y0: 10, X1: x1, Y1: 20}}
}

func TestSymbolsToGlyphs_InsertsWordSpaces(t *testing.T) {
	symbols := []symbol{
		sym("[", 0, 4),
		sym("a", 4, 10),
		sym("b", 20, 26), // gap of 10 > 0.3*10
		sym("]", 26, 30),
	}

	glyphs := symbolsToGlyphs(symbols)
	runes := make([]rune, len(glyphs))
	for i, g := range glyphs {
		runes[i] = g.Text
	}
	assert.Equal(t, "[a b]", string(runes))

	space := glyphs[2]
	assert.Equal(t, 10.0, space.Box.X0)
	assert.Equal(t, 20.0, space.Box.X1)
}

func TestSymbolsToGlyphs_MultiRuneSymbol(t *testing.T) {
	glyphs := symbolsToGlyphs([]symbol{sym("ab", 0, 10)})
	require.Len(t, glyphs, 2)
	assert.Equal(t, 5.0, glyphs[0].Box.X1)
	assert.Equal(t, 5.0, glyphs[1].Box.X0)
}

func TestSymbolsToGlyphs_MatchAcrossRecognizedLines(t *testing.T) {
	symbols := []symbol{
		sym("[", 0, 4),
		sym("x", 4, 10),
		{text: "]", box: pdfredact.Rect{X0: 0, Y0: 30, X1: 4, Y1: 40}},
	}

	page := pdfredact.NewPage(1, 100, 100, symbolsToGlyphs(symbols))
	require.Len(t, page.Lines, 2)

	text := (&pdfredact.Document{Pages: []pdfredact.Page{page}}).Text()
	matches := pdfredact.FindBrackets(text, pdfredact.BracketConfig{Square: true})
	require.Len(t, matches, 1)
	assert.Equal(t, "[x\n]", matches[0].Text)
	assert.Len(t, matches[0].Region, 2)
}
