package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "grammar [text]",
		Short: "Check grammar through the configured LLM provider",
		Long: "Check grammar and spelling. Results are cached and reused for identical or near-identical " +
			"texts. Configure the provider with QALAM_GRAMMAR_PROVIDER (gemini or openai).",
		Run: runGrammar,
	}
	addFileFlag(cmd)
	cmd.Flags().Duration("timeout", 3*time.Minute, "Provider timeout")

	RootCmd.AddCommand(cmd)
}

func runGrammar(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("grammar", err)
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	svc, s, err := newService(false)
	if err != nil {
		exitErr("config", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	res, err := svc.Grammar(ctx, text)
	if err != nil {
		exitErr("grammar", err)
	}

	if textOutput() {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "source: %s\n", res.Source)
		for _, sg := range res.Suggestions {
			phrase, kind := sg.Phrase()
			fmt.Fprintf(out, "- [%s] %s -> %s\n  %s\n", kind, phrase, sg.SuggestionText, sg.Explanation)
		}
		return
	}
	printJSON(cmd, res)
}
