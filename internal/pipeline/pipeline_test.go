package pipeline

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"domshot/internal/config"
	"domshot/pkg/snapshot"
)

func square(fill string) *snapshot.Document {
	return &snapshot.Document{
		Width:           40,
		Height:          20,
		BackgroundColor: "white",
		Root: &snapshot.Node{
			Tag:    "html",
			Bounds: snapshot.Rect{Width: 40, Height: 20},
			Styles: map[string]string{"display": "block"},
			Children: []*snapshot.Node{{
				Tag:    "div",
				Bounds: snapshot.Rect{Left: 10, Top: 5, Width: 10, Height: 10},
				Style:  "display: block; background-color: " + fill,
			}},
		},
	}
}

func newPipeline(t *testing.T, mutate func(*config.Config)) (*Pipeline, *observer.ObservedLogs) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	p, err := New(cfg, zap.New(core))
	require.NoError(t, err)
	return p, logs
}

func writeSnapshot(t *testing.T, path string, doc *snapshot.Document) {
	t.Helper()
	require.NoError(t, snapshot.EncodeFile(path, doc))
}

func TestRender(t *testing.T) {
	p, _ := newPipeline(t, func(c *config.Config) { c.Render.Scale = 2 })

	res, err := p.Render(context.Background(), square("#0000ff"))
	require.NoError(t, err)
	assert.Equal(t, 80, res.Image.Bounds().Dx())
	assert.Equal(t, 40, res.Image.Bounds().Dy())
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, res.Image.RGBAAt(30, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, res.Image.RGBAAt(2, 2))
	assert.Empty(t, res.Warnings)
}

func TestRenderHonoursScroll(t *testing.T) {
	p, _ := newPipeline(t, nil)
	doc := square("#0000ff")
	doc.ScrollX = 10

	res, err := p.Render(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, res.Image.RGBAAt(5, 10))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, res.Image.RGBAAt(15, 10))
}

func TestRenderLogsStyleWarnings(t *testing.T) {
	p, logs := newPipeline(t, nil)

	res, err := p.Render(context.Background(), square("no-such-colour"))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, 1, logs.FilterMessage("Ignoring style value").Len())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, res.Image.RGBAAt(15, 10))
}

func TestRenderRejectsInvalidDocument(t *testing.T) {
	p, _ := newPipeline(t, nil)
	doc := square("red")
	doc.Root = nil

	_, err := p.Render(context.Background(), doc)
	assert.ErrorIs(t, err, snapshot.ErrInvalid)
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "page.json")
	out := filepath.Join(dir, "page.png")
	writeSnapshot(t, in, square("#ff0000"))
	p, logs := newPipeline(t, nil)

	_, err := p.RenderFile(context.Background(), in, out)
	require.NoError(t, err)

	img, err := gg.LoadPNG(out)
	require.NoError(t, err)
	r, g, b, _ := img.At(15, 10).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0, 0}, [3]uint32{r, g, b})
	assert.Equal(t, 1, logs.FilterMessage("Rendered snapshot").Len())
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "png")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeSnapshot(t, filepath.Join(in, name+".json"), square("#00ff00"))
	}
	p, _ := newPipeline(t, func(c *config.Config) { c.Batch.Concurrency = 2 })

	results, err := p.Batch(context.Background(), in, out, false)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.FileExists(t, r.Output)
	}
	assert.Equal(t, filepath.Join(out, "a.png"), results[0].Output)
}

func TestBatchKeepGoing(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeSnapshot(t, filepath.Join(in, "good.json"), square("#00ff00"))
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.json"), []byte(`{"width": 0}`), 0o644))
	p, logs := newPipeline(t, nil)

	results, err := p.Batch(context.Background(), in, out, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, snapshot.ErrInvalid)
	require.Len(t, results, 2)

	// Sorted: bad.json first.
	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.FileExists(t, filepath.Join(out, "good.png"))
	assert.Equal(t, 1, logs.FilterMessage("Render failed").Len())
}

func TestBatchStopsOnFirstFailure(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.json"), []byte(`not json`), 0o644))
	p, _ := newPipeline(t, nil)

	_, err := p.Batch(context.Background(), in, t.TempDir(), false)
	assert.ErrorIs(t, err, snapshot.ErrInvalid)
}

func TestBatchEmptyDirectory(t *testing.T) {
	p, _ := newPipeline(t, nil)
	results, err := p.Batch(context.Background(), t.TempDir(), t.TempDir(), false)
	assert.NoError(t, err)
	assert.Empty(t, results)
}
