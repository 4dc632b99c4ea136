package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// renderFlags are the output overrides shared by render and batch.
type renderFlags struct {
	scale      float64
	width      float64
	height     float64
	background string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.scale, "scale", 0, "device pixel ratio of the output")
	cmd.Flags().Float64Var(&f.width, "width", 0, "output width in CSS pixels (default: snapshot viewport)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "output height in CSS pixels (default: snapshot viewport)")
	cmd.Flags().StringVar(&f.background, "background", "", "canvas background colour")
}

func (f *renderFlags) apply(cmd *cobra.Command, a *app) {
	if cmd.Flags().Changed("scale") {
		a.cfg.Render.Scale = f.scale
	}
	if cmd.Flags().Changed("width") {
		a.cfg.Render.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		a.cfg.Render.Height = f.height
	}
	if cmd.Flags().Changed("background") {
		a.cfg.Render.BackgroundColor = f.background
	}
}

func pngName(snapshotPath string) string {
	return strings.TrimSuffix(snapshotPath, filepath.Ext(snapshotPath)) + ".png"
}

func newRenderCmd(a *app) *cobra.Command {
	var flags renderFlags
	var output string
	cmd := &cobra.Command{
		Use:   "render <snapshot.json>",
		Short: "Render a snapshot to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			if output == "" {
				output = pngName(args[0])
			}
			res, err := p.RenderFile(cmd.Context(), args[0], output)
			if err != nil {
				return err
			}
			b := res.Image.Bounds()
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %dx%d", output, b.Dx(), b.Dy())
			if n := len(res.Warnings); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), " (%d style warnings)", n)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output PNG (default: snapshot name with .png)")
	return cmd
}
