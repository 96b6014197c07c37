package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/assist"
	"github.com/rcliao/qalam/internal/compose"
	"github.com/rcliao/qalam/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "highlight [text]",
		Short: "Compute highlight spans for a text",
		Long: "Compose sentence, lexical and grammar spans over a text. Grammar suggestions from an " +
			"earlier check can be layered in with --suggestions (a JSON file as printed by grammar).",
		Run: runHighlight,
	}
	addFileFlag(cmd)
	cmd.Flags().String("suggestions", "", "JSON file with grammar suggestions")
	cmd.Flags().Bool("html", false, "Render the text as HTML with hl-* classes")

	RootCmd.AddCommand(cmd)
}

func runHighlight(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("highlight", err)
	}
	sgPath, _ := cmd.Flags().GetString("suggestions")
	asHTML, _ := cmd.Flags().GetBool("html")

	var suggestions []model.GrammarSuggestion
	if sgPath != "" {
		suggestions, err = readSuggestions(sgPath)
		if err != nil {
			exitErr("read suggestions", err)
		}
	}

	opts, err := serviceOptions()
	if err != nil {
		exitErr("config", err)
	}
	report := assist.New(opts).Highlight(text, suggestions)

	switch {
	case asHTML:
		fmt.Fprintln(cmd.OutOrStdout(), compose.RenderHTML(text, report.Segments))
	case textOutput():
		runes := []rune(text)
		for _, seg := range report.Segments {
			names := make([]string, len(seg.Kinds))
			for i, k := range seg.Kinds {
				names[i] = k.String()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d-%d\t%s\t%s\n",
				seg.Start, seg.End, strings.Join(names, ","), string(runes[seg.Start:seg.End]))
		}
	default:
		printJSON(cmd, report)
	}
}

// readSuggestions accepts a bare suggestion array or a grammar result.
func readSuggestions(path string) ([]model.GrammarSuggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []model.GrammarSuggestion
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var res assist.GrammarResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	return res.Suggestions, nil
}
