package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage puzzle sites",
}

var sitesImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import or update sites from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		return importSitesFile(st, args[0])
	},
}

var sitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sites",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sites, err := st.GetSites()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range sites {
			state := ""
			if !s.Available {
				state = " (unavailable)"
			}
			fmt.Fprintf(out, "%3d  %-20s %-9s %s%s\n", s.ID, s.Name, s.Variant, s.URL, state)
		}
		return nil
	},
}

func init() {
	sitesCmd.AddCommand(sitesImportCmd, sitesListCmd)
}
