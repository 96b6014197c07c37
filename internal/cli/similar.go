package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "similar [text]",
		Short: "Find cached grammar results for near-duplicate texts",
		Run:   runSimilar,
	}

	addFileFlag(cmd)
	cmd.Flags().Float64P("threshold", "t", store.DefaultSimilarityThreshold, "Minimum similarity score")
	cmd.Flags().IntP("limit", "l", 5, "Max results")

	cacheCmd.AddCommand(cmd)
}

func runSimilar(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("similar", err)
	}
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	limit, _ := cmd.Flags().GetInt("limit")
	if threshold < 0 || threshold > 1 {
		exitErr("similar", fmt.Errorf("threshold must be within [0, 1]"))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	matches, err := s.Similar(cmd.Context(), store.SimilarParams{
		Text:      text,
		Threshold: threshold,
		Limit:     limit,
	})
	if err != nil {
		exitErr("similar", err)
	}

	if textOutput() {
		for _, m := range matches {
			fmt.Fprintf(cmd.OutOrStdout(), "%.3f\t%d hits\t%s\n", m.Score, m.Entry.Hits, preview(m.Entry.Text))
		}
		return
	}
	if matches == nil {
		matches = []store.SimilarMatch{}
	}
	printJSON(cmd, matches)
}
