package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search cached texts by substring",
		Long:  "Search cached source texts and translations for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results per table")

	cacheCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Search(cmd.Context(), store.SearchParams{
		Table: tableFlag(cmd),
		Query: query,
		Limit: limit,
	})
	if err != nil {
		exitErr("search", err)
	}
	printEntries(cmd, results)
}
