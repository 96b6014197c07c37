package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Run:   runStats,
	}

	cacheCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "database:     %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
		fmt.Fprintf(out, "grammar:      %d entries, %d hits (max %d)\n", stats.GrammarEntries, stats.GrammarHits, stats.MaxEntries)
		fmt.Fprintf(out, "translations: %d entries, %d hits (max %d)\n", stats.TranslationEntries, stats.TranslationHits, stats.MaxEntries)
		for _, u := range stats.Usage {
			fmt.Fprintf(out, "usage %-8s %d\n", u.Kind+":", u.Count)
		}
		return
	}
	printJSON(cmd, stats)
}
