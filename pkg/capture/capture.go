// Package capture snapshots a live page with headless Chrome: it loads
// the page, then runs a collector script that serialises every element's
// computed style, border box, text fragments and replaced content.
package capture

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"domshot/pkg/css"
	"domshot/pkg/snapshot"
)

//go:embed collector.js
var collectorJS string

// Options configures a capture. A zero Width or Height uses 1280x800.
type Options struct {
	Width     int
	Height    int
	UserAgent string

	// WaitSelector is awaited before collecting; "body" when empty.
	WaitSelector string
	// Settle is an extra delay after the selector is ready, for late
	// layout and web fonts.
	Settle  time.Duration
	Timeout time.Duration

	// ExecPath selects the browser binary; RemoteURL connects to a
	// running browser's DevTools endpoint instead of starting one.
	ExecPath  string
	RemoteURL string
	Headful   bool

	Logger *zap.Logger
}

const (
	DefaultWidth   = 1280
	DefaultHeight  = 800
	DefaultTimeout = 30 * time.Second
)

var ErrEmptyURL = errors.New("capture: empty url")

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.WaitSelector == "" {
		o.WaitSelector = "body"
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// allocatorOptions builds the flags of a locally started browser.
func (o Options) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !o.Headful),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(o.Width, o.Height),
	)
	if o.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(o.ExecPath))
	}
	return opts
}

// Script returns the expression evaluated in the page.
func Script() (string, error) {
	props, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(css.Properties())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("(%s)(%s)", collectorJS, props), nil
}

// Capture loads url and returns its snapshot.
func Capture(ctx context.Context, url string, opts Options) (*snapshot.Document, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	opts = opts.withDefaults()
	logger := opts.Logger.With(zap.String("url", url))

	script, err := Script()
	if err != nil {
		return nil, fmt.Errorf("build collector: %w", err)
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, opts.allocatorOptions()...)
	}
	defer cancelAlloc()

	sugar := logger.Sugar()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Errorf))
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelRun()

	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
	}
	if opts.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(opts.UserAgent))
	}
	var raw []byte
	actions = append(actions,
		chromedp.Navigate(url),
		chromedp.WaitReady(opts.WaitSelector, chromedp.ByQuery),
	)
	if opts.Settle > 0 {
		actions = append(actions, chromedp.Sleep(opts.Settle))
	}
	actions = append(actions, chromedp.Evaluate(script, &raw))

	start := time.Now()
	logger.Debug("Capturing page", zap.Int("width", opts.Width), zap.Int("height", opts.Height))
	if err := chromedp.Run(runCtx, actions...); err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}

	doc, err := snapshot.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", url, err)
	}
	logger.Info("Captured page",
		zap.Int("bytes", len(raw)),
		zap.Duration("duration", time.Since(start)))
	return doc, nil
}
