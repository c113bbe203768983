package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill-attempts",
	Short: "Derive attempt counts for legacy puzzles stored without them",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := st.BackfillAttempts()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scanned %d puzzles, updated %d\n", res.Scanned, res.Updated)
		return nil
	},
}
