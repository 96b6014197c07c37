package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached entries, most recently used first",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results per table")
	cmd.Flags().Bool("keys-only", false, "Only output table/key pairs")

	cacheCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	entries, err := s.List(cmd.Context(), store.ListParams{
		Table: tableFlag(cmd),
		Limit: limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if keysOnly {
		for _, e := range entries.Grammar {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", store.TableGrammar, e.Key)
		}
		for _, e := range entries.Translations {
			fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", store.TableTranslation, e.Key)
		}
		return
	}
	printEntries(cmd, entries)
}

// printEntries prints entries as JSON, or one line per entry in text mode.
func printEntries(cmd *cobra.Command, entries store.Entries) {
	if !textOutput() {
		printJSON(cmd, entries)
		return
	}
	out := cmd.OutOrStdout()
	for _, e := range entries.Grammar {
		fmt.Fprintf(out, "grammar\t%s\t%d suggestions\t%d hits\t%s\n",
			e.LastUsed.Format("2006-01-02 15:04"), len(e.Suggestions), e.Hits, preview(e.Text))
	}
	for _, e := range entries.Translations {
		fmt.Fprintf(out, "translation\t%s\t%s\t%d hits\t%s\n",
			e.LastUsed.Format("2006-01-02 15:04"), e.Target, e.Hits, preview(e.Text))
	}
}

func preview(s string) string {
	const n = 40
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
