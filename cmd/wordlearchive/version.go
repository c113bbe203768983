package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version 由 -ldflags "-X main.version=..." 注入
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "wordlearchive", version)
		return nil
	},
}
