package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		flags     renderFlags
		output    string
		jobs      int
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Render every snapshot in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, a)
			if cmd.Flags().Changed("jobs") {
				a.cfg.Batch.Concurrency = jobs
			}
			p, err := a.pipeline()
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0]
			}
			results, err := p.Batch(cmd.Context(), args[0], output, keepGoing)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", r.Snapshot, r.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", r.Output)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rendered, %d failed\n", len(results)-failed, failed)
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: the input directory)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel renders")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "render the remaining snapshots after a failure")
	return cmd
}
