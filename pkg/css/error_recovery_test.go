package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorRecovery_InvalidDeclarations(t *testing.T) {
	tests := []struct {
		name           string
		attr           string
		expectedProps  []string
		forbiddenProps []string
	}{
		{
			name:           "declaration without colon is skipped",
			attr:           `badstuff; color: red`,
			expectedProps:  []string{"color"},
			forbiddenProps: []string{"badstuff"},
		},
		{
			name:           "declaration with empty value is skipped",
			attr:           `bad: ; color: green`,
			expectedProps:  []string{"color"},
			forbiddenProps: []string{"bad"},
		},
		{
			name:           "property starting with number is skipped",
			attr:           `123abc: red; color: blue`,
			expectedProps:  []string{"color"},
			forbiddenProps: []string{"123abc"},
		},
		{
			name:           "property with punctuation is skipped",
			attr:           `co{lor: red; width: 1px`,
			expectedProps:  []string{"width"},
			forbiddenProps: []string{"co{lor"},
		},
		{
			name:          "valid property with hyphen prefix is kept",
			attr:          `-webkit-text-fill-color: red; color: red`,
			expectedProps: []string{"-webkit-text-fill-color", "color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := ParseInlineStyle(tt.attr)
			for _, prop := range tt.expectedProps {
				_, ok := style.Get(prop)
				assert.True(t, ok, "expected property %q in %v", prop, style.Properties)
			}
			for _, prop := range tt.forbiddenProps {
				_, ok := style.Get(prop)
				assert.False(t, ok, "property %q should not exist", prop)
			}
		})
	}
}

func TestErrorRecovery_UnclosedStrings(t *testing.T) {
	tests := []string{
		`font-family: "unclosed; color: red`,
		`font-family: 'unclosed; color: red`,
		`background-image: url(a.png; color: red`,
	}
	for _, attr := range tests {
		t.Run(attr, func(t *testing.T) {
			require.NotPanics(t, func() {
				style := ParseInlineStyle(attr)
				_, _ = style.Resolve()
			})
		})
	}
}

func TestErrorRecovery_UnknownPropertiesAreIgnoredOnResolve(t *testing.T) {
	decl, err := ParseInlineStyle("made-up: 1; color: #00ff00").Resolve()
	require.NoError(t, err)
	assert.Equal(t, Pack(0, 255, 0, 1), decl.Color)
}
