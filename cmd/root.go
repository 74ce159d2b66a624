package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/intunekit/hydrator/internal/app"
	apperrors "github.com/intunekit/hydrator/internal/errors"
)

var (
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "hydrator",
	Short: "Hydrates a Microsoft Intune tenant from JSON templates.",
	Long: `Hydrator creates baseline Intune and Entra objects (groups, filters,
compliance policies, app protection policies, notification templates,
enrollment profiles, Conditional Access policies, and mobile apps) in a
target tenant from JSON template files.

Every object it creates is stamped with an ownership marker, and only
marked objects are ever deleted by the remove command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
	SilenceUsage: true,
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default is .hydrator.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override log format (text, json)")

	viper.BindPFlag("settings.log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("settings.log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetEnvPrefix("HYDRATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	viper.SetDefault("tenant.id", "")
	viper.SetDefault("tenant.client_id", "")
	viper.SetDefault("tenant.auth_mode", "client_secret")
	viper.SetDefault("templates.dir", "templates")
}

func initializeConfig(cmd *cobra.Command) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".hydrator")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using configuration file:", viper.ConfigFileUsed())
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "Config file not found, using defaults and environment variables.")
		} else {
			return apperrors.Wrap(err, apperrors.CodeConfigReadError, "failed to read config file")
		}
	}

	return nil
}

// runHydration bootstraps the application from the resolved viper state and
// executes the run. Both subcommands funnel through here.
func runHydration(cmd *cobra.Command) error {
	application, bootstrapErr := app.BuildApplicationFromViper(cmd.Context(), viper.GetViper())
	if bootstrapErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Application initialization failed: %v\n", bootstrapErr)
		if appErr := (*apperrors.AppError)(nil); errors.As(bootstrapErr, &appErr) {
			if appErr.IsUserFacing {
				fmt.Fprintf(os.Stderr, "Error Details: %s\n", appErr.Message)
				if appErr.SuggestedAction != "" {
					fmt.Fprintf(os.Stderr, "Suggestion: %s\n", appErr.SuggestedAction)
				}
			}
		}
		return bootstrapErr
	}

	runErr := application.Run(cmd.Context())
	if runErr != nil {
		userMsg, suggestion, _ := apperrors.GetUserFacingMessage(runErr)
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", userMsg)
		if suggestion != "" {
			fmt.Fprintf(os.Stderr, "Suggestion: %s\n", suggestion)
		}
		return runErr
	}

	return nil
}
