package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInlineStyle(t *testing.T) {
	style := ParseInlineStyle("color: red; width: 100px;; bogus")
	color, ok := style.Get("color")
	require.True(t, ok)
	assert.Equal(t, "red", color)

	width, ok := style.GetLength("width")
	require.True(t, ok)
	assert.Equal(t, 100.0, width)

	_, ok = style.Get("bogus")
	assert.False(t, ok)
}

func TestParseInlineStyleShorthands(t *testing.T) {
	tests := []struct {
		name  string
		attr  string
		check map[string]string
	}{
		{"padding one value", "padding: 10px", map[string]string{
			"padding-top": "10px", "padding-right": "10px", "padding-bottom": "10px", "padding-left": "10px",
		}},
		{"padding two values", "padding: 10px 20px", map[string]string{
			"padding-top": "10px", "padding-right": "20px", "padding-bottom": "10px", "padding-left": "20px",
		}},
		{"padding three values", "padding: 1px 2px 3px", map[string]string{
			"padding-top": "1px", "padding-right": "2px", "padding-bottom": "3px", "padding-left": "2px",
		}},
		{"padding four values", "padding: 1px 2px 3px 4px", map[string]string{
			"padding-top": "1px", "padding-right": "2px", "padding-bottom": "3px", "padding-left": "4px",
		}},
		{"border", "border: 2px dashed rgb(0, 0, 255)", map[string]string{
			"border-top-width": "2px", "border-left-style": "dashed", "border-bottom-color": "rgb(0, 0, 255)",
		}},
		{"border side", "border-left: 3px solid red", map[string]string{
			"border-left-width": "3px", "border-left-style": "solid", "border-left-color": "red",
		}},
		{"border-color box", "border-color: red blue", map[string]string{
			"border-top-color": "red", "border-right-color": "blue",
		}},
		{"border-radius", "border-radius: 4px 8px", map[string]string{
			"border-top-left-radius": "4px", "border-top-right-radius": "8px", "border-bottom-right-radius": "4px",
		}},
		{"overflow", "overflow: hidden", map[string]string{"overflow-x": "hidden", "overflow-y": "hidden"}},
		{"background colour", "background: #ff0000", map[string]string{"background-color": "#ff0000"}},
		{"background image", "background: url(a.png)", map[string]string{"background-image": "url(a.png)"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := ParseInlineStyle(tt.attr)
			for prop, want := range tt.check {
				got, ok := style.Get(prop)
				require.True(t, ok, prop)
				assert.Equal(t, want, got, prop)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	style := ParseInlineStyle(`
		display: block; position: relative; z-index: 3; opacity: 0.5;
		background-color: rgba(255, 0, 0, 0.5); color: blue;
		border: 4px solid #000; border-radius: 10px;
		padding: 5px 10%; transform: matrix(1, 0, 0, 1, 10, 20);
		font-family: "Open Sans", sans-serif; font-size: 20px; font-weight: bold;
		text-decoration-line: underline line-through; accent-color: green;
		background-size: cover, 10px auto; isolation: isolate`)
	d, err := style.Resolve()
	require.NoError(t, err)

	assert.Equal(t, DisplayBlock, d.Display)
	assert.Equal(t, PositionRelative, d.Position)
	assert.Equal(t, ZIndex{Order: 3}, d.ZIndex)
	assert.Equal(t, 0.5, d.Opacity)
	assert.Equal(t, Pack(255, 0, 0, 0.5), d.BackgroundColor)
	assert.Equal(t, Pack(0, 0, 255, 1), d.Color)
	assert.Equal(t, d.Color, d.WebkitTextFillColor, "fill colour follows color")
	for _, b := range d.Borders {
		assert.Equal(t, Border{Style: BorderSolid, Color: Black, Width: 4}, b)
	}
	assert.Equal(t, [2]LengthPercentage{Px(10), Px(10)}, d.BorderRadius[2])
	assert.Equal(t, Percent(10), d.Padding[1])
	require.NotNil(t, d.Transform)
	assert.Equal(t, 20.0, d.Transform[5])
	assert.Equal(t, []string{"Open Sans", "sans-serif"}, d.FontFamily)
	assert.Equal(t, 20.0, d.FontSize)
	assert.Equal(t, 700, d.FontWeight)
	assert.Equal(t, []TextDecorationLine{Underline, LineThrough}, d.TextDecorationLine)
	require.NotNil(t, d.AccentColor)
	assert.Len(t, d.BackgroundSize, 2)
	assert.True(t, d.Isolation)
}

func TestResolveKeepsDefaultsOnInvalidValues(t *testing.T) {
	style := NewStyle()
	style.Set("color", "not-a-colour")
	style.Set("z-index", "high")
	style.Set("background-color", "red")
	style.Set("unknown-property", "whatever")

	d, err := style.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
	assert.Contains(t, err.Error(), "z-index")

	assert.Equal(t, Black, d.Color)
	assert.True(t, d.ZIndex.Auto)
	assert.Equal(t, Pack(255, 0, 0, 1), d.BackgroundColor)
}

func TestResolveEmptyStyleIsDefaults(t *testing.T) {
	d, err := NewStyle().Resolve()
	require.NoError(t, err)
	want := Defaults()
	assert.Equal(t, &want, d)
}

func TestPropertiesAreResolvable(t *testing.T) {
	props := Properties()
	assert.Contains(t, props, "border-left-width")
	assert.Contains(t, props, "border-bottom-right-radius")
	assert.Contains(t, props, "-webkit-text-stroke-width")
	assert.IsIncreasing(t, props)
}
