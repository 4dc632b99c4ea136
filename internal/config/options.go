package config

import (
	"fmt"

	"go.uber.org/zap"

	"domshot/pkg/capture"
	"domshot/pkg/css"
	"domshot/pkg/images"
	"domshot/pkg/render"
	"domshot/pkg/resource"
	"domshot/pkg/text"
	stdnet "domshot/std/net"
)

// Fetcher serves file paths from Images.Root (or the working directory)
// and everything else over the network relative to Images.BaseURL,
// limited to Images.MaxBytes per asset.
func (c *Config) Fetcher() resource.Fetcher {
	remote := resource.NewFetcher(c.Images.BaseURL)
	remote.Client = stdnet.NewClient(c.Images.MaxBytes)
	return resource.MultiFetcher{
		resource.FileFetcher{Root: c.Images.Root},
		remote,
	}
}

// NewCache builds the shared asset cache.
func (c *Config) NewCache(logger *zap.Logger) (*images.Cache, error) {
	return images.NewCache(
		images.WithFetcher(c.Fetcher()),
		images.WithLogger(logger),
		images.WithSize(c.Images.CacheSize),
	)
}

// NewFonts builds the shared font provider.
func (c *Config) NewFonts() *text.Provider { return text.NewProvider(c.Fonts) }

// RenderOptions returns the render settings for a width x height
// viewport. Configured sizes and background colour take precedence.
func (c *Config) RenderOptions(width, height float64, background css.Color) (render.Options, error) {
	opts := render.Options{
		Scale:           c.Render.Scale,
		Width:           width,
		Height:          height,
		BackgroundColor: background,
		UserAgent:       c.Render.UserAgent,
		LegacyRotate:    c.Render.LegacyRotate,
	}
	if c.Render.Width > 0 {
		opts.Width = c.Render.Width
	}
	if c.Render.Height > 0 {
		opts.Height = c.Render.Height
	}
	if c.Render.BackgroundColor != "" {
		col, err := css.ParseColor(c.Render.BackgroundColor)
		if err != nil {
			return opts, fmt.Errorf("%w: render.background_color: %w", ErrInvalid, err)
		}
		opts.BackgroundColor = col
	}
	return opts, nil
}

func (c *Config) CaptureOptions(logger *zap.Logger) capture.Options {
	return capture.Options{
		Width:        c.Capture.Width,
		Height:       c.Capture.Height,
		UserAgent:    c.Capture.UserAgent,
		WaitSelector: c.Capture.WaitSelector,
		Settle:       c.Capture.Settle,
		Timeout:      c.Capture.Timeout,
		ExecPath:     c.Capture.ExecPath,
		RemoteURL:    c.Capture.RemoteURL,
		Headful:      c.Capture.Headful,
		Logger:       logger,
	}
}
