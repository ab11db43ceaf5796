package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/vitae/cv"
)

//nolint:gochecknoglobals // Cobra boilerplate
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the available CV templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, t := range cv.Templates {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-11s %s\n", t.ID, t.Name, t.Description)
		}
		return nil
	},
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(templatesCmd)
}
