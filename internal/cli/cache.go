package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/store"
)

// cacheCmd groups the commands that inspect and maintain the result cache.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain cached grammar and translation results",
}

func init() {
	cacheCmd.PersistentFlags().String("table", "", "Cache table: grammar, translation or both (default)")
	RootCmd.AddCommand(cacheCmd)
}

func tableFlag(cmd *cobra.Command) store.Table {
	v, _ := cmd.Flags().GetString("table")
	t, err := store.ParseTable(v)
	if err != nil {
		exitErr("table", err)
	}
	return t
}
