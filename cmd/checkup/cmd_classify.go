package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify SCORE [SCORE...]",
		Short: "Print the status label for anomaly scores",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				score, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("score must be an integer, got %q", raw)
				}
				l := analysis.Classify(score)
				fmt.Fprintf(out, "%d\t%s\t", score, l)
				labelColor(l).Fprintln(out, l.DisplayName())
			}
			return nil
		},
	}
}
