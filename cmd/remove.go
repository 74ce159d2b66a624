package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Delete tenant objects previously created by this tool.",
	Long: `Remove deletes objects whose marker field carries the ownership marker.
Objects without the marker are never touched, regardless of name.

Conditional Access policies are additionally skipped unless they are in the
disabled state, so an accidentally enabled policy must be disabled in the
portal before this tool will delete it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("run.remove", true)
		return runHydration(cmd)
	},
}

func init() {
	removeCmd.Flags().Bool("dry-run", false, "Report what would be deleted without calling any mutating Graph endpoint")
	removeCmd.Flags().StringSlice("only-kinds", nil, "Restrict the run to these kinds (e.g. Group,MobileApp)")
	removeCmd.Flags().String("marker", "", "Override the ownership marker to match against")
	removeCmd.Flags().StringSlice("reporters", nil, "Report formats to render (text, json, markdown)")

	viper.BindPFlag("run.dry_run", removeCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("run.kinds", removeCmd.Flags().Lookup("only-kinds"))
	viper.BindPFlag("run.marker", removeCmd.Flags().Lookup("marker"))
	viper.BindPFlag("settings.reporters", removeCmd.Flags().Lookup("reporters"))

	rootCmd.AddCommand(removeCmd)
}
