package text

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	moves, lines, quads, cubes, closes int
	minX, maxX                         float64
}

func (r *recorder) track(x float64) {
	if r.moves+r.lines+r.quads+r.cubes == 0 || x < r.minX {
		r.minX = x
	}
	if x > r.maxX {
		r.maxX = x
	}
}

func (r *recorder) MoveTo(x, y float64)                    { r.track(x); r.moves++ }
func (r *recorder) LineTo(x, y float64)                    { r.track(x); r.lines++ }
func (r *recorder) QuadraticCurveTo(cx, cy, x, y float64)  { r.track(x); r.quads++ }
func (r *recorder) BezierCurveTo(a, b, c, d, x, y float64) { r.track(x); r.cubes++ }
func (r *recorder) ClosePath()                             { r.closes++ }

func TestFaceMeasureAndOutline(t *testing.T) {
	p := NewProvider(FontConfig{})
	f, err := p.Face(Style{Families: []string{"sans-serif"}, Size: 20, Weight: 400})
	require.NoError(t, err)

	w := f.Measure("Hello")
	assert.Greater(t, w, 20.0)
	assert.Less(t, w, 100.0)
	assert.Greater(t, f.Measure("Hello world"), w)

	rec := &recorder{}
	adv := f.Outline("H", 10, 30, rec)
	assert.InDelta(t, f.Measure("H"), adv, 0.5)
	assert.Equal(t, rec.moves, rec.closes)
	assert.Greater(t, rec.lines+rec.quads, 0)
	assert.GreaterOrEqual(t, rec.minX, 10.0)
	assert.LessOrEqual(t, rec.maxX, 10+adv)
}

func TestProviderCachesFaces(t *testing.T) {
	p := NewProvider(FontConfig{})
	a, err := p.Face(Style{Families: []string{"Arial"}, Size: 12, Weight: 700})
	require.NoError(t, err)
	b, err := p.Face(Style{Families: []string{"Helvetica"}, Size: 12, Weight: 700})
	require.NoError(t, err)
	assert.Same(t, a, b)

	mono, err := p.Face(Style{Families: []string{"monospace"}, Size: 12, Weight: 400})
	require.NoError(t, err)
	assert.InDelta(t, mono.Measure("iiii"), mono.Measure("WWWW"), 0.01)
}

func TestProviderMissingFile(t *testing.T) {
	p := NewProvider(FontConfig{Regular: filepath.Join(t.TempDir(), "missing.ttf")})
	_, err := p.Face(Style{Size: 12, Weight: 400})
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	p := NewProvider(FontConfig{})
	m, err := p.Metrics([]string{"serif"}, 16)
	require.NoError(t, err)
	assert.Greater(t, m.Baseline, 10.0)
	assert.Less(t, m.Baseline, 20.0)
	assert.Less(t, m.Middle, m.Baseline)
}

func TestGraphemes(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Graphemes("abc"))
	assert.Equal(t, []string{"é", "x"}, Graphemes("éx"))
	assert.Nil(t, Graphemes(""))
}

func TestFixIOSSystemFonts(t *testing.T) {
	families := []string{"-apple-system", "system-ui", "Roboto"}
	ios := "Mozilla/5.0 (iPhone; CPU iPhone OS 15_1 like Mac OS X)"
	assert.Equal(t, []string{"Roboto"}, FixIOSSystemFonts(families, ios))
	assert.Equal(t, families, FixIOSSystemFonts(families, "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)"))
}

func TestStyleString(t *testing.T) {
	s := Style{Families: []string{"Roboto", "sans-serif"}, Size: 14, Weight: 700, Italic: true, SmallCaps: true}
	assert.Equal(t, "italic small-caps 700 14px Roboto, sans-serif", s.String())
}

func TestFontPath(t *testing.T) {
	fc := FontConfig{Regular: "r", Bold: "b", Monospace: "m"}
	assert.Equal(t, "b", fc.FontPath(true, true, false))
	assert.Equal(t, "m", fc.FontPath(true, false, true))
	assert.Equal(t, "r", fc.FontPath(false, true, false))
}
