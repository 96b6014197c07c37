package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/translate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate Arabic text",
		Run:   runTranslate,
	}
	addFileFlag(cmd)
	cmd.Flags().StringP("to", "t", translate.DefaultTarget, "Target language name or code")
	cmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")

	RootCmd.AddCommand(cmd)
}

func runTranslate(cmd *cobra.Command, args []string) {
	text, err := readInput(cmd, args)
	if err != nil {
		exitErr("translate", err)
	}
	target, _ := cmd.Flags().GetString("to")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	svc, s, err := newService(true)
	if err != nil {
		exitErr("config", err)
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()
	res, err := svc.Translate(ctx, text, target)
	if err != nil {
		exitErr("translate", err)
	}

	if textOutput() {
		fmt.Fprintln(cmd.OutOrStdout(), res.Translation)
		return
	}
	printJSON(cmd, res)
}
