package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/assist"
)

func init() {
	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Count sentences, long sentences and weak patterns",
		Long:  "Run the rule-based analysis. Text can be positional args, --file or piped via stdin.",
		Run:   runAnalyze,
	}
	addFileFlag(cmd)
	cmd.Flags().Bool("spans", false, "Include spans and segments")

	RootCmd.AddCommand(cmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("analyze", err)
	}
	withSpans, _ := cmd.Flags().GetBool("spans")

	opts, err := serviceOptions()
	if err != nil {
		exitErr("config", err)
	}
	report := assist.New(opts).Analyze(text)

	if textOutput() {
		a := report.Analysis
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "words:               %d\n", a.WordCount)
		fmt.Fprintf(out, "characters:          %d\n", a.CharCount)
		fmt.Fprintf(out, "sentences:           %d\n", a.SentenceCount)
		fmt.Fprintf(out, "long sentences:      %d\n", a.LongSentenceCount)
		fmt.Fprintf(out, "very long sentences: %d\n", a.VeryLongSentenceCount)
		fmt.Fprintf(out, "weak phrases:        %d %v\n", a.WeakPhraseCount, a.WeakPhrases)
		fmt.Fprintf(out, "adverbs:             %d %v\n", a.AdverbCount, a.Adverbs)
		fmt.Fprintf(out, "passive voice:       %d %v\n", a.PassiveCount, a.Passives)
		return
	}
	if withSpans {
		printJSON(cmd, report)
		return
	}
	printJSON(cmd, report.Analysis)
}
