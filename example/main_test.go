package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRangeLabel(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		expected   string
	}{
		{name: "both bounds", start: 1, end: 3, expected: "pages 2 to 4"},
		{name: "open end", start: 2, end: -1, expected: "pages 3 to end"},
		{name: "open start", start: -1, end: 4, expected: "pages 1 to 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pageRangeLabel(tt.start, tt.end))
		})
	}
}
