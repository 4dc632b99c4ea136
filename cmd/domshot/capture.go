package main

import (
	"fmt"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domshot/pkg/snapshot"
)

func newCaptureCmd(a *app) *cobra.Command {
	var (
		output  string
		png     string
		width   int
		height  int
		wait    string
		settle  time.Duration
		timeout time.Duration
		remote  string
	)
	var flags renderFlags
	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Capture a page with headless Chrome into a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &a.cfg.Capture
			set := cmd.Flags().Changed
			if set("viewport-width") {
				c.Width = width
			}
			if set("viewport-height") {
				c.Height = height
			}
			if set("wait") {
				c.WaitSelector = wait
			}
			if set("settle") {
				c.Settle = settle
			}
			if set("timeout") {
				c.Timeout = timeout
			}
			if set("remote") {
				c.RemoteURL = remote
			}
			flags.apply(cmd, a)

			p, err := a.pipeline()
			if err != nil {
				return err
			}
			doc, err := p.Capture(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output == "-" {
				if err := snapshot.Encode(cmd.OutOrStdout(), doc); err != nil {
					return err
				}
			} else {
				if err := snapshot.EncodeFile(output, doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %gx%g viewport\n", output, doc.Width, doc.Height)
			}

			if png == "" {
				return nil
			}
			res, err := p.Render(cmd.Context(), doc)
			if err != nil {
				return err
			}
			if err := gg.SavePNG(png, res.Image); err != nil {
				return fmt.Errorf("save %s: %w", png, err)
			}
			a.logger.Info("Rendered capture", zap.String("url", args[0]), zap.String("output", png))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "snapshot.json", `snapshot file, "-" for stdout`)
	f.StringVar(&png, "png", "", "also render the capture to this PNG")
	f.IntVar(&width, "viewport-width", 0, "browser viewport width")
	f.IntVar(&height, "viewport-height", 0, "browser viewport height")
	f.StringVar(&wait, "wait", "", "CSS selector to wait for before collecting")
	f.DurationVar(&settle, "settle", 0, "extra delay after the page is ready")
	f.DurationVar(&timeout, "timeout", 0, "overall capture timeout")
	f.StringVar(&remote, "remote", "", "DevTools websocket URL of a running browser")
	flags.register(cmd)
	return cmd
}
