package pdfredact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampPageRange(t *testing.T) {
	tests := []struct {
		name              string
		start, end, pages int
		wantStart         int
		wantEnd           int
		wantErr           bool
	}{
		{name: "whole document", start: -1, end: -1, pages: 5, wantStart: 0, wantEnd: 4},
		{name: "open start", start: -1, end: 2, pages: 5, wantStart: 0, wantEnd: 2},
		{name: "end past last page", start: 1, end: 99, pages: 5, wantStart: 1, wantEnd: 4},
		{name: "inverted", start: 3, end: 1, pages: 5, wantErr: true},
		{name: "empty document", start: -1, end: -1, pages: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := clampPageRange(tt.start, tt.end, tt.pages)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestCalculateDocumentStatistics(t *testing.T) {
	doc := NewPlainTextDocument("[a] b\n(c)\fd")
	matches := FindBrackets(doc.Text(), BracketConfig{Square: true, Curved: true})
	matches = append(matches, RuleMatch{Rule: "hint", IsClue: true})

	stats := calculateDocumentStatistics(doc, matches)
	assert.Equal(t, 2, stats.TotalPages)
	assert.Equal(t, 3, stats.TotalLines)
	assert.Equal(t, 9, stats.TotalCharacters)
	assert.Equal(t, plainGlyphHeight, stats.MedianLineHeight)
	assert.Equal(t, map[string]int{"brackets": 2}, stats.MatchesByRule)
	assert.Equal(t, 1, stats.Clues)
}
