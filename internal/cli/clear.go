package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete cached entries",
		Long:  "Delete cached entries, optionally only those unused for longer than --older-than (e.g. 30d, 12h).",
		Run:   runClear,
	}

	cmd.Flags().String("older-than", "", "Only delete entries not used within this age")

	cacheCmd.AddCommand(cmd)
}

func runClear(cmd *cobra.Command, args []string) {
	olderFlag, _ := cmd.Flags().GetString("older-than")
	older, err := parseDuration(olderFlag)
	if err != nil {
		exitErr("clear", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.Clear(cmd.Context(), store.ClearParams{
		Table:     tableFlag(cmd),
		OlderThan: older,
	})
	if err != nil {
		exitErr("clear", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"deleted":%d}`+"\n", n)
}
