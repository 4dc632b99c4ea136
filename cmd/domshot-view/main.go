// Command domshot-view shows rendered snapshots in a window. The entry
// accepts a snapshot path or an http(s) URL, which is captured first.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domshot/internal/config"
	"domshot/internal/observability"
	"domshot/internal/pipeline"
	"domshot/pkg/snapshot"
	stdnet "domshot/std/net"
)

func main() {
	var cfgFile string
	cmd := &cobra.Command{
		Use:          "domshot-view [snapshot.json | url]",
		Short:        "Preview rendered snapshots",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()
			p, err := pipeline.New(cfg, observability.GetLogger())
			if err != nil {
				return err
			}
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			show(p, cfg, initial)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML)")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// load captures or decodes target and renders it.
func load(ctx context.Context, p *pipeline.Pipeline, target string) (*pipeline.Result, error) {
	var doc *snapshot.Document
	var err error
	if stdnet.IsNetworkURL(target) {
		doc, err = p.Capture(ctx, target)
	} else {
		doc, err = snapshot.DecodeFile(target)
	}
	if err != nil {
		return nil, err
	}
	return p.Render(ctx, doc)
}

func show(p *pipeline.Pipeline, cfg *config.Config, initial string) {
	a := app.New()
	w := a.NewWindow("domshot")
	w.Resize(fyne.NewSize(float32(cfg.Capture.Width), float32(cfg.Capture.Height)))

	canvasImg := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	canvasImg.FillMode = canvas.ImageFillOriginal
	status := widget.NewLabel("Enter a snapshot path or URL and press Enter")

	entry := widget.NewEntry()
	entry.SetPlaceHolder("page.json or https://example.com")
	entry.OnSubmitted = func(target string) {
		if target == "" {
			return
		}
		status.SetText("Loading " + target + "...")
		go func() {
			start := time.Now()
			res, err := load(context.Background(), p, target)
			fyne.Do(func() {
				if err != nil {
					observability.GetLogger().Error("Preview failed", zap.String("target", target), zap.Error(err))
					status.SetText("Error: " + err.Error())
					return
				}
				canvasImg.Image = res.Image
				canvasImg.Refresh()
				b := res.Image.Bounds()
				msg := fmt.Sprintf("%s  %dx%d in %s", target, b.Dx(), b.Dy(), time.Since(start).Round(time.Millisecond))
				if n := len(res.Warnings); n > 0 {
					msg += fmt.Sprintf(", %d style warnings", n)
				}
				status.SetText(msg)
				w.SetTitle("domshot - " + target)
			})
		}()
	}

	top := container.NewBorder(nil, nil, nil, nil, entry)
	w.SetContent(container.NewBorder(top, status, nil, nil, container.NewScroll(canvasImg)))
	w.Canvas().Focus(entry)

	if initial != "" {
		entry.SetText(initial)
		entry.OnSubmitted(initial)
	}
	w.ShowAndRun()
}
