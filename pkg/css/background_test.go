package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImageURL(t *testing.T) {
	tests := []struct {
		input   string
		wantURL string
		wantOK  bool
	}{
		{"url(image.png)", "image.png", true},
		{"url('image.png')", "image.png", true},
		{`url("image.png")`, "image.png", true},
		{"url( image.png )", "image.png", true},
		{"URL(image.png)", "image.png", true},
		{"url(data:image/png;base64,iVBOR)", "data:image/png;base64,iVBOR", true},
		{"url()", "", false},
		{"image.png", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			img, err := ParseImage(tt.input)
			if !tt.wantOK {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, URLImage{URL: tt.wantURL}, img)
		})
	}

	img, err := ParseImage("none")
	assert.NoError(t, err)
	assert.Nil(t, img)
}

func TestBackgroundShorthand(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]string
	}{
		{"url only", "url(test.png)", map[string]string{
			"background-image":  "url(test.png)",
			"background-color":  "transparent",
			"background-repeat": "repeat",
		}},
		{"colour, url and repeat", "red url(bg.png) no-repeat", map[string]string{
			"background-image":  "url(bg.png)",
			"background-color":  "red",
			"background-repeat": "no-repeat",
		}},
		{"data uri", "url(data:image/png;base64,iVBORw0KGgo=) no-repeat", map[string]string{
			"background-image":  "url(data:image/png;base64,iVBORw0KGgo=)",
			"background-repeat": "no-repeat",
		}},
		{"colour only", "yellow", map[string]string{
			"background-color": "yellow",
			"background-image": "none",
		}},
		{"position and size", "url(a.png) center / 10px auto repeat-x", map[string]string{
			"background-position": "center",
			"background-size":     "10px auto",
			"background-repeat":   "repeat-x",
		}},
		{"unspaced slash", "url(a.png) left top/cover", map[string]string{
			"background-position": "left top",
			"background-size":     "cover",
		}},
		{"boxes", "content-box padding-box #00f", map[string]string{
			"background-origin": "content-box",
			"background-clip":   "padding-box",
			"background-color":  "#00f",
		}},
		{"layers", "url(a.png) no-repeat, linear-gradient(red, blue) rgb(0, 0, 0)", map[string]string{
			"background-image":  "url(a.png), linear-gradient(red, blue)",
			"background-repeat": "no-repeat, repeat",
			"background-color":  "rgb(0, 0, 0)",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := ParseInlineStyle("background: " + tt.value)
			for prop, want := range tt.want {
				got, ok := style.Get(prop)
				require.True(t, ok, prop)
				assert.Equal(t, want, got, prop)
			}
			_, err := style.Resolve()
			assert.NoError(t, err)
		})
	}
}

func TestBackgroundShorthandResolves(t *testing.T) {
	decl, err := ParseInlineStyle("background: red url(bg.png) no-repeat right 5px / contain").Resolve()
	require.NoError(t, err)

	assert.Equal(t, Pack(255, 0, 0, 1), decl.BackgroundColor)
	require.Len(t, decl.BackgroundImage, 1)
	assert.Equal(t, URLImage{URL: "bg.png"}, decl.BackgroundImage[0])
	assert.Equal(t, []BackgroundRepeat{NoRepeat}, decl.BackgroundRepeat)
}

func TestInlineStyleKeepsSemicolonsInURLs(t *testing.T) {
	style := ParseInlineStyle("background-image: url(data:image/png;base64,AAAA); color: red")
	img, ok := style.Get("background-image")
	require.True(t, ok)
	assert.Equal(t, "url(data:image/png;base64,AAAA)", img)
	color, _ := style.Get("color")
	assert.Equal(t, "red", color)
}

func TestParseBackgroundRepeat(t *testing.T) {
	tests := []struct {
		value string
		want  BackgroundRepeat
	}{
		{"no-repeat", NoRepeat},
		{"repeat-x", RepeatX},
		{"repeat-y", RepeatY},
		{"repeat", Repeat},
		{"repeat no-repeat", RepeatX},
		{"no-repeat repeat", RepeatY},
		{"round space", RoundSpace},
		{"space space", Space},
	}
	for _, tt := range tests {
		got, err := ParseBackgroundRepeat(tt.value)
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got, tt.value)
	}

	_, err := ParseBackgroundRepeat("tile")
	assert.Error(t, err)
}
