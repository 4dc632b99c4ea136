// Package pipeline wires configuration, the asset cache and the font
// provider into the capture and render steps shared by the commands.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"domshot/internal/config"
	"domshot/pkg/capture"
	"domshot/pkg/images"
	"domshot/pkg/render"
	"domshot/pkg/snapshot"
	"domshot/pkg/text"
)

// Pipeline renders snapshots with one cache and one font provider. It is
// safe for concurrent use.
type Pipeline struct {
	cfg    *config.Config
	cache  images.Matcher
	fonts  *text.Provider
	logger *zap.Logger
}

// Result is a rendered page and the style warnings raised while
// building it.
type Result struct {
	Image    *image.RGBA
	Warnings []error
}

func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := cfg.NewCache(logger.Named("images"))
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, cache: cache, fonts: cfg.NewFonts(), logger: logger}, nil
}

// Render paints doc. The viewport starts at the captured scroll offset.
func (p *Pipeline) Render(ctx context.Context, doc *snapshot.Document) (*Result, error) {
	page, err := doc.Build()
	if err != nil {
		return nil, err
	}
	for _, w := range page.Warnings {
		p.logger.Warn("Ignoring style value", zap.Error(w))
	}

	opts, err := p.cfg.RenderOptions(page.Width, page.Height, page.BackgroundColor)
	if err != nil {
		return nil, err
	}
	opts.X, opts.Y = page.ScrollX, page.ScrollY
	opts.Cache = p.cache
	opts.Fonts = p.fonts
	opts.Logger = p.logger.Named("render")

	r, err := render.New(opts)
	if err != nil {
		return nil, err
	}
	img, err := r.Render(ctx, page.Root)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return &Result{Image: img, Warnings: page.Warnings}, nil
}

// RenderFile renders the snapshot at in and writes a PNG to out.
func (p *Pipeline) RenderFile(ctx context.Context, in, out string) (*Result, error) {
	doc, err := snapshot.DecodeFile(in)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := p.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in, err)
	}
	if err := gg.SavePNG(out, res.Image); err != nil {
		return nil, fmt.Errorf("save %s: %w", out, err)
	}
	p.logger.Info("Rendered snapshot",
		zap.String("snapshot", in),
		zap.String("output", out),
		zap.Int("warnings", len(res.Warnings)),
		zap.Duration("duration", time.Since(start)))
	return res, nil
}

// Capture snapshots url with the configured browser settings.
func (p *Pipeline) Capture(ctx context.Context, url string) (*snapshot.Document, error) {
	return capture.Capture(ctx, url, p.cfg.CaptureOptions(p.logger.Named("capture")))
}

// BatchResult records the outcome of one file of a batch.
type BatchResult struct {
	Snapshot string
	Output   string
	Err      error
}

// Batch renders every *.json snapshot in dir to outDir, at most
// Batch.Concurrency at a time. Unless keepGoing is set, the first failure
// cancels the remaining renders.
func (p *Pipeline) Batch(ctx context.Context, dir, outDir string, keepGoing bool) ([]BatchResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	results := make([]BatchResult, len(files))
	var mu sync.Mutex
	var failures []error

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Batch.Concurrency)
	for i, in := range files {
		name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in)) + ".png"
		results[i] = BatchResult{Snapshot: in, Output: filepath.Join(outDir, name)}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}
			_, err := p.RenderFile(gctx, in, results[i].Output)
			results[i].Err = err
			if err == nil {
				return nil
			}
			p.logger.Error("Render failed", zap.String("snapshot", in), zap.Error(err))
			if !keepGoing {
				return err
			}
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(failures...)
}
