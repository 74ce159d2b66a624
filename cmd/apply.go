package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create or update tenant objects from the template directory.",
	Long: `Apply reads JSON templates and creates every object that does not yet
exist in the tenant, matched by display name. Existing objects are skipped
unless --force is given, in which case they are deleted and recreated from
the template.

Conditional Access policies are always created in the disabled state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		viper.Set("run.remove", false)
		return runHydration(cmd)
	},
}

func init() {
	applyCmd.Flags().Bool("dry-run", false, "Report what would change without calling any mutating Graph endpoint")
	applyCmd.Flags().Bool("force", false, "Delete and recreate objects that already exist")
	applyCmd.Flags().String("templates-dir", "", "Directory containing the JSON templates")
	applyCmd.Flags().Bool("recursive", false, "Walk template subdirectories recursively")
	applyCmd.Flags().StringSlice("only-kinds", nil, "Restrict the run to these kinds (e.g. Group,MobileApp)")
	applyCmd.Flags().String("marker", "", "Override the ownership marker stamped into created objects")
	applyCmd.Flags().StringSlice("reporters", nil, "Report formats to render (text, json, markdown)")

	viper.BindPFlag("run.dry_run", applyCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("run.force", applyCmd.Flags().Lookup("force"))
	viper.BindPFlag("run.kinds", applyCmd.Flags().Lookup("only-kinds"))
	viper.BindPFlag("run.marker", applyCmd.Flags().Lookup("marker"))
	viper.BindPFlag("templates.dir", applyCmd.Flags().Lookup("templates-dir"))
	viper.BindPFlag("templates.recursive", applyCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("settings.reporters", applyCmd.Flags().Lookup("reporters"))

	rootCmd.AddCommand(applyCmd)
}
