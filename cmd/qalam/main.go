package main

import (
	"os"

	"github.com/rcliao/qalam/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
