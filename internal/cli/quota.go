package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/logging"
)

func init() {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show grammar provider usage for the current window",
		Long:  "Show how many grammar requests were made in the quota window (QALAM_QUOTA_WINDOW, default 10d).",
		Run:   runQuota,
	}
	cmd.Flags().String("prune", "", "Delete usage records older than this age (e.g. 30d)")

	RootCmd.AddCommand(cmd)
}

func runQuota(cmd *cobra.Command, args []string) {
	pruneFlag, _ := cmd.Flags().GetString("prune")
	prune, err := parseDuration(pruneFlag)
	if err != nil {
		exitErr("quota", err)
	}

	svc, s, err := newService(false)
	if err != nil {
		exitErr("config", err)
	}
	defer s.Close()

	if prune > 0 {
		n, err := s.PruneUsage(cmd.Context(), time.Now().Add(-prune))
		if err != nil {
			exitErr("prune usage", err)
		}
		logging.Logger().Info("pruned usage records", "count", n, "older_than", pruneFlag)
	}

	q, err := svc.Quota(cmd.Context())
	if err != nil {
		exitErr("quota", err)
	}
	if textOutput() {
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d requests used since %s (%d remaining)\n",
			q.Used, q.Limit, q.Since.Format("2006-01-02 15:04"), q.Remaining)
		return
	}
	printJSON(cmd, q)
}
