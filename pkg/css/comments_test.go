package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"comment between declarations", "color: red; /* comment */ width: 1px", "color: red;  width: 1px"},
		{"comment inside value", "color: /* x */ red", "color:  red"},
		{"unterminated comment fully stripped", "color: red; /* unterminated", "color: red; "},
		{"nested-looking comment ends at first close", "/* outer /* inner */ still-outside */", " still-outside */"},
		{"multiple comments", "/* c1 */ color: red; /* c2 */", " color: red; "},
		{"empty comment", "/**/", ""},
		{"comment with stars", "/*** comment ***/", ""},
		{"no comments", "color: red", "color: red"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripComments(tt.input))
		})
	}
}

func TestInlineStyleIgnoresComments(t *testing.T) {
	style := ParseInlineStyle("/* reset */ color: blue; /* width: 5px; */ height: 2px")
	color, ok := style.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "blue", color)
	_, ok = style.Get("width")
	assert.False(t, ok)
	h, ok := style.GetLength("height")
	assert.True(t, ok)
	assert.Equal(t, 2.0, h)
}
