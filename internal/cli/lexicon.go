package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/analysis"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Print the phrase lists used by analyze",
		Long: "Print the active lexicon as JSON. Use --out to write it to a file that can be edited " +
			"and passed back with --lexicon.",
		Run: runLexicon,
	}
	cmd.Flags().StringP("out", "o", "", "Write the lexicon to this file")
	cmd.Flags().Bool("default", false, "Ignore --lexicon and print the built-in lists")

	RootCmd.AddCommand(cmd)
}

func runLexicon(cmd *cobra.Command, args []string) {
	outPath, _ := cmd.Flags().GetString("out")
	builtin, _ := cmd.Flags().GetBool("default")

	lex := analysis.DefaultLexicon()
	if !builtin {
		a, err := loadAnalyzer()
		if err != nil {
			exitErr("load lexicon", err)
		}
		lex = a.Config().Lexicon
	}

	if outPath != "" {
		if err := lex.Save(outPath); err != nil {
			exitErr("save lexicon", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"path":%q}`+"\n", outPath)
		return
	}
	if textOutput() {
		out := cmd.OutOrStdout()
		for _, group := range []struct {
			name    string
			phrases []string
		}{
			{"weak phrases", lex.WeakPhrases},
			{"adverbs", lex.Adverbs},
			{"passive indicators", lex.PassiveIndicators},
		} {
			fmt.Fprintf(out, "# %s\n", group.name)
			for _, p := range group.phrases {
				fmt.Fprintln(out, p)
			}
		}
		return
	}
	printJSON(cmd, lex)
}
