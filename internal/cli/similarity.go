package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/similarity"
)

func init() {
	cmd := &cobra.Command{
		Use:   "similarity <a> <b>",
		Short: "Score how similar two texts are",
		Long:  "Print a score in [0, 1] after normalizing diacritics, letter variants and spacing.",
		Args:  cobra.ExactArgs(2),
		Run:   runSimilarity,
	}
	cmd.Flags().Float64P("threshold", "t", 0, "Also report whether the score reaches this threshold")

	RootCmd.AddCommand(cmd)
}

type similarityOutput struct {
	Score     float64  `json:"score"`
	Threshold *float64 `json:"threshold,omitempty"`
	Similar   *bool    `json:"similar,omitempty"`
}

func runSimilarity(cmd *cobra.Command, args []string) {
	out := similarityOutput{Score: similarity.Similarity(args[0], args[1])}
	if cmd.Flags().Changed("threshold") {
		t, _ := cmd.Flags().GetFloat64("threshold")
		if t < 0 || t > 1 {
			exitErr("similarity", fmt.Errorf("threshold must be within [0, 1]"))
		}
		ok := similarity.IsSimilar(args[0], args[1], t)
		out.Threshold, out.Similar = &t, &ok
	}

	if textOutput() {
		fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", out.Score)
		return
	}
	printJSON(cmd, out)
}
